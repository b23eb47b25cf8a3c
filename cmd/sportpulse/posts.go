package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sportpulse/pkg/client/api"
	"sportpulse/pkg/client/data"

	"github.com/spf13/cobra"
)

func (a *app) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}
	cmd.AddCommand(
		a.postsListCmd(),
		a.postsShowCmd(),
		a.postsPopularCmd(),
		a.postsMineCmd(),
		a.postsCreateCmd(),
		a.postsUpdateCmd(),
		a.postsDeleteCmd(),
	)
	return cmd
}

func (a *app) postsListCmd() *cobra.Command {
	var (
		limit, offset int
		filters       = data.DefaultFilters()
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts with optional search, category and sort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Data.FetchPosts(ctx, api.PageQuery{Limit: limit, Offset: offset}); err != nil {
				return err
			}
			c.Data.SetFilters(func(f *data.Filters) { *f = filters })

			page := c.Data.PaginatedPosts()
			if err := printPosts(cmd.OutOrStdout(), page.Posts); err != nil {
				return err
			}
			stats := c.Data.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "\npage %d/%d, %d of %d posts match\n",
				page.CurrentPage, max(page.TotalPages, 1), stats.FilteredPosts, stats.TotalPosts)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&limit, "limit", 0, "server page size (0 for all)")
	f.IntVar(&offset, "offset", 0, "server offset")
	f.StringVarP(&filters.Search, "search", "s", "", "match title or text")
	f.StringVarP(&filters.Category, "category", "c", data.CategoryAll, "category")
	f.StringVar(&filters.SortBy, "sort", data.SortCreatedAt, "createdAt, views or title")
	f.StringVar(&filters.SortOrder, "order", "desc", "asc or desc")
	f.IntVar(&filters.Page, "page", 1, "page number")
	f.IntVar(&filters.Limit, "per-page", 10, "posts per page")
	return cmd
}

func (a *app) postsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Data.FetchPost(ctx, args[0]); err != nil {
				return err
			}
			p := c.Data.Posts().Current
			if p == nil {
				return fmt.Errorf("post %s not loaded", args[0])
			}
			printPost(cmd.OutOrStdout(), *p)
			return nil
		},
	}
}

func (a *app) postsPopularCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most viewed posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Data.FetchPosts(ctx, api.PageQuery{}); err != nil {
				return err
			}
			return printPosts(cmd.OutOrStdout(), c.Data.PopularPosts(n))
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", data.DefaultPopularCount, "how many posts")
	return cmd
}

func (a *app) postsMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Data.FetchMyPosts(ctx); err != nil {
				return err
			}
			return printPosts(cmd.OutOrStdout(), c.Data.Posts().Items)
		},
	}
}

func postInputFlags(cmd *cobra.Command, in *api.PostInput, image *string) {
	f := cmd.Flags()
	f.StringVarP(&in.Title, "title", "t", "", "title")
	f.StringVar(&in.Text, "text", "", "body text")
	f.StringVarP(&in.Category, "category", "c", "", "category")
	f.StringVar(image, "image", "", "path to an image to attach")
}

func attachImage(in *api.PostInput, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	in.Image = raw
	in.ImageName = filepath.Base(path)
	return nil
}

func (a *app) postsCreateCmd() *cobra.Command {
	var (
		in    api.PostInput
		image string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			if err := attachImage(&in, image); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			p, err := c.Data.CreatePost(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created post %s\n", p.ID)
			return nil
		},
	}
	postInputFlags(cmd, &in, &image)
	return cmd
}

func (a *app) postsUpdateCmd() *cobra.Command {
	var (
		in    api.PostInput
		image string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			if err := attachImage(&in, image); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			p, err := c.Data.UpdatePost(ctx, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated post %s\n", p.ID)
			return nil
		},
	}
	postInputFlags(cmd, &in, &image)
	return cmd
}

func (a *app) postsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Data.DeletePost(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
			return nil
		},
	}
}
