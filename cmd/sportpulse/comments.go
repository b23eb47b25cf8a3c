package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments",
	}
	cmd.AddCommand(a.commentsListCmd(), a.commentsAddCmd())
	return cmd
}

func (a *app) commentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <post-id>",
		Short: "List the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Data.FetchComments(ctx, args[0]); err != nil {
				return err
			}
			return printComments(cmd.OutOrStdout(), c.Data.Comments().Items)
		},
	}
}

func (a *app) commentsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <post-id> <text...>",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			comment, err := c.Data.CreateComment(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Commented as %s\n", comment.Author)
			return nil
		},
	}
}
