package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"sportpulse/pkg/client/api"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func printPosts(out io.Writer, posts []api.Post) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(out, "No posts")
		return err
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tAUTHOR\tVIEWS\tCREATED")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, truncate(p.Title, 40), orDash(p.Category), orDash(p.Username), p.Views, day(p.CreatedAt))
	}
	return w.Flush()
}

func printPost(out io.Writer, p api.Post) {
	fmt.Fprintf(out, "%s\n%s\n\n", p.Title, strings.Repeat("=", len([]rune(p.Title))))
	fmt.Fprintf(out, "by %s in %s, %s, %d views\n", orDash(p.Username), orDash(p.Category), day(p.CreatedAt), p.Views)
	if p.ImgURL != "" {
		fmt.Fprintf(out, "image: %s\n", p.ImgURL)
	}
	fmt.Fprintf(out, "\n%s\n", p.Text)
	if len(p.Comments) > 0 {
		fmt.Fprintf(out, "\n%d comments\n", len(p.Comments))
		_ = printComments(out, p.Comments)
	}
}

func printComments(out io.Writer, comments []api.Comment) error {
	if len(comments) == 0 {
		_, err := fmt.Fprintln(out, "No comments")
		return err
	}
	w := newTable(out)
	for _, c := range comments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", day(c.CreatedAt), c.Author, truncate(c.Comment, 80))
	}
	return w.Flush()
}
