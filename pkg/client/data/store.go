// Package data holds the posts and comments loaded from the API along with
// client-side filters and a small memo cache.
//
// Responses apply in request order: a fetch result is dropped when a newer
// fetch of the same collection was issued after it, or when a confirmed
// mutation changed the collection in the meantime.
package data

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sportpulse/pkg/client/api"
)

// ErrSuperseded is returned when a response lost to a newer request.
var ErrSuperseded = errors.New("data: response superseded by a newer request")

const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheMaxEntries = 100
	DefaultPopularCount    = 5
)

// Gateway is the subset of the API client the store needs.
type Gateway interface {
	ListPosts(ctx context.Context, q api.PageQuery) ([]api.Post, error)
	GetPost(ctx context.Context, id string) (*api.Post, error)
	MyPosts(ctx context.Context) ([]api.Post, error)
	CreatePost(ctx context.Context, in api.PostInput) (*api.Post, error)
	UpdatePost(ctx context.Context, id string, in api.PostInput) (*api.Post, error)
	DeletePost(ctx context.Context, id string) (*api.DeleteResponse, error)
	ListComments(ctx context.Context, postID string) ([]api.Comment, error)
	CreateComment(ctx context.Context, postID, text string) (*api.Comment, error)
}

// Posts is the posts collection.
type Posts struct {
	Items   []api.Post
	Current *api.Post
	Loading bool
	Error   string
}

// Comments is the comments collection of one post.
type Comments struct {
	PostID  string
	Items   []api.Comment
	Loading bool
	Error   string
}

type Options struct {
	CacheTTL        time.Duration
	CacheMaxEntries int
	Now             func() time.Time
	Logger          *slog.Logger
}

// collection tracks request generations and in-flight calls for one collection.
type collection struct {
	gen     uint64
	pending int
}

func (c *collection) issue() uint64 {
	c.gen++
	c.pending++
	return c.gen
}

type Store struct {
	mu       sync.Mutex
	gw       Gateway
	cache    *Cache
	logger   *slog.Logger
	posts    Posts
	comments Comments
	filters  Filters

	postsReq   collection
	currentReq collection
	commentReq collection
}

func NewStore(gw Gateway, opts Options) *Store {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheMaxEntries <= 0 {
		opts.CacheMaxEntries = DefaultCacheMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		gw:      gw,
		cache:   NewCache(opts.CacheTTL, opts.CacheMaxEntries, opts.Now),
		logger:  opts.Logger,
		posts:   Posts{Items: []api.Post{}},
		filters: DefaultFilters(),
	}
}

// Posts returns a copy of the posts collection.
func (s *Store) Posts() Posts {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.posts
	out.Items = append([]api.Post{}, s.posts.Items...)
	if s.posts.Current != nil {
		current := *s.posts.Current
		out.Current = &current
	}
	return out
}

// Comments returns a copy of the comments collection.
func (s *Store) Comments() Comments {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.comments
	out.Items = append([]api.Comment{}, s.comments.Items...)
	return out
}

// start marks a request on c and clears the collection error.
func (s *Store) start(c *collection, errField *string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := c.issue()
	*errField = ""
	s.syncLoading()
	return gen
}

// beginMutation counts a write as in flight without issuing a new generation.
func (s *Store) beginMutation(c *collection, errField *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.pending++
	*errField = ""
	s.syncLoading()
}

// syncLoading derives the loading flags from in-flight counts. Called with s.mu held.
func (s *Store) syncLoading() {
	s.posts.Loading = s.postsReq.pending+s.currentReq.pending > 0
	s.comments.Loading = s.commentReq.pending > 0
}

// settle records the outcome of request gen. It reports whether the caller may
// apply the result; s.mu stays held when it returns true.
func (s *Store) settle(ctx context.Context, c *collection, gen uint64, err error, errField *string) (bool, error) {
	s.mu.Lock()
	c.pending--
	s.syncLoading()

	switch {
	case ctx.Err() != nil:
		s.mu.Unlock()
		return false, ctx.Err()
	case gen != c.gen:
		s.mu.Unlock()
		s.logger.Debug("dropping superseded response")
		return false, ErrSuperseded
	case err != nil:
		*errField = api.Message(err)
		s.mu.Unlock()
		return false, err
	}
	return true, nil
}

// settleMutation is settle for writes. A write the server confirmed always
// applies, so there is no generation check.
func (s *Store) settleMutation(ctx context.Context, c *collection, err error, errField *string) (bool, error) {
	s.mu.Lock()
	c.pending--
	s.syncLoading()
	if err != nil {
		if ctx.Err() == nil {
			*errField = api.Message(err)
		}
		s.mu.Unlock()
		return false, err
	}
	return true, nil
}

// FetchPosts replaces the posts collection with the server list.
func (s *Store) FetchPosts(ctx context.Context, q api.PageQuery) error {
	gen := s.start(&s.postsReq, &s.posts.Error)
	posts, err := s.gw.ListPosts(ctx, q)
	ok, err := s.settle(ctx, &s.postsReq, gen, err, &s.posts.Error)
	if !ok {
		return err
	}
	defer s.mu.Unlock()
	s.posts.Items = nonNilPosts(posts)
	return nil
}

// FetchMyPosts replaces the posts collection with the caller's posts.
func (s *Store) FetchMyPosts(ctx context.Context) error {
	gen := s.start(&s.postsReq, &s.posts.Error)
	posts, err := s.gw.MyPosts(ctx)
	ok, err := s.settle(ctx, &s.postsReq, gen, err, &s.posts.Error)
	if !ok {
		return err
	}
	defer s.mu.Unlock()
	s.posts.Items = nonNilPosts(posts)
	return nil
}

// FetchPost loads one post as Current and upserts it into the list.
func (s *Store) FetchPost(ctx context.Context, id string) error {
	gen := s.start(&s.currentReq, &s.posts.Error)
	post, err := s.gw.GetPost(ctx, id)
	ok, err := s.settle(ctx, &s.currentReq, gen, err, &s.posts.Error)
	if !ok {
		return err
	}
	defer s.mu.Unlock()
	s.posts.Current = post
	if !s.replacePost(*post) {
		s.posts.Items = append(s.posts.Items, *post)
	}
	return nil
}

// CreatePost adds the confirmed post at the front of the list.
func (s *Store) CreatePost(ctx context.Context, in api.PostInput) (*api.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Text) == "" {
		return nil, s.rejectPosts(&api.ValidationError{Message: "Title and text are required"})
	}
	s.beginMutation(&s.postsReq, &s.posts.Error)
	post, err := s.gw.CreatePost(ctx, in)
	ok, err := s.settleMutation(ctx, &s.postsReq, err, &s.posts.Error)
	if !ok {
		return nil, err
	}
	defer s.mu.Unlock()
	s.postsReq.gen++
	s.posts.Items = append([]api.Post{*post}, s.posts.Items...)
	return post, nil
}

// UpdatePost replaces the matching list entry. A post not loaded locally is
// left out of the list.
func (s *Store) UpdatePost(ctx context.Context, id string, in api.PostInput) (*api.Post, error) {
	s.beginMutation(&s.postsReq, &s.posts.Error)
	post, err := s.gw.UpdatePost(ctx, id, in)
	ok, err := s.settleMutation(ctx, &s.postsReq, err, &s.posts.Error)
	if !ok {
		return nil, err
	}
	defer s.mu.Unlock()
	if s.replacePost(*post) {
		s.postsReq.gen++
	}
	if s.posts.Current != nil && s.posts.Current.ID == post.ID {
		s.posts.Current = post
	}
	return post, nil
}

// DeletePost removes the matching entry. Deleting a post that is not loaded
// changes nothing locally.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.beginMutation(&s.postsReq, &s.posts.Error)
	_, err := s.gw.DeletePost(ctx, id)
	ok, err := s.settleMutation(ctx, &s.postsReq, err, &s.posts.Error)
	if !ok {
		return err
	}
	defer s.mu.Unlock()
	for i, p := range s.posts.Items {
		if p.ID == id {
			s.posts.Items = append(s.posts.Items[:i:i], s.posts.Items[i+1:]...)
			s.postsReq.gen++
			break
		}
	}
	if s.posts.Current != nil && s.posts.Current.ID == id {
		s.posts.Current = nil
	}
	return nil
}

// FetchComments replaces the comments collection with those of postID.
func (s *Store) FetchComments(ctx context.Context, postID string) error {
	gen := s.start(&s.commentReq, &s.comments.Error)
	comments, err := s.gw.ListComments(ctx, postID)
	ok, err := s.settle(ctx, &s.commentReq, gen, err, &s.comments.Error)
	if !ok {
		return err
	}
	defer s.mu.Unlock()
	if comments == nil {
		comments = []api.Comment{}
	}
	s.comments.PostID = postID
	s.comments.Items = comments
	return nil
}

// CreateComment adds the confirmed comment to the loaded comments of its post.
func (s *Store) CreateComment(ctx context.Context, postID, text string) (*api.Comment, error) {
	if strings.TrimSpace(text) == "" {
		err := &api.ValidationError{Message: "Comment text is required"}
		s.mu.Lock()
		s.comments.Error = err.Message
		s.mu.Unlock()
		return nil, err
	}
	s.beginMutation(&s.commentReq, &s.comments.Error)
	comment, err := s.gw.CreateComment(ctx, postID, text)
	ok, err := s.settleMutation(ctx, &s.commentReq, err, &s.comments.Error)
	if !ok {
		return nil, err
	}
	defer s.mu.Unlock()
	if s.comments.PostID == postID {
		s.commentReq.gen++
		s.comments.Items = append([]api.Comment{*comment}, s.comments.Items...)
	}
	if s.posts.Current != nil && s.posts.Current.ID == postID {
		s.posts.Current.Comments = append([]api.Comment{*comment}, s.posts.Current.Comments...)
	}
	return comment, nil
}

func (s *Store) rejectPosts(err *api.ValidationError) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts.Error = err.Message
	return err
}

// replacePost swaps the list entry with p's ID. Called with s.mu held.
func (s *Store) replacePost(p api.Post) bool {
	for i := range s.posts.Items {
		if s.posts.Items[i].ID == p.ID {
			s.posts.Items[i] = p
			return true
		}
	}
	return false
}

func nonNilPosts(posts []api.Post) []api.Post {
	if posts == nil {
		return []api.Post{}
	}
	return posts
}

// Filters returns the current filters.
func (s *Store) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters edits the filters in place.
func (s *Store) SetFilters(edit func(*Filters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit(&s.filters)
}

func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultFilters()
}

// FilteredPosts applies the filters to the loaded posts.
func (s *Store) FilteredPosts() []api.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterPosts(s.posts.Items, s.filters)
}

// PaginatedPosts returns the filter page of FilteredPosts.
func (s *Store) PaginatedPosts() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(filterPosts(s.posts.Items, s.filters), s.filters.Page, s.filters.Limit)
}

// PopularPosts returns the n most viewed posts. Ties keep their loaded order.
func (s *Store) PopularPosts(n int) []api.Post {
	if n <= 0 {
		n = DefaultPopularCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return popular(s.posts.Items, n)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalPosts:    len(s.posts.Items),
		TotalComments: len(s.comments.Items),
		CachedItems:   s.cache.Len(),
		FilteredPosts: len(filterPosts(s.posts.Items, s.filters)),
	}
}

func (s *Store) SetCachedData(key string, value any) {
	s.cache.Set(key, value)
}

func (s *Store) CachedData(key string) (any, bool) {
	return s.cache.Get(key)
}

// ClearCache drops the given keys, or the whole cache when none are given.
func (s *Store) ClearCache(keys ...string) {
	s.cache.Clear(keys...)
}

// FetchWithCache returns the cached value for key, or calls fetch and caches
// a successful result.
func FetchWithCache[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	if cached, ok := s.CachedData(key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	s.SetCachedData(key, v)
	return v, nil
}
