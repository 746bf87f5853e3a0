package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/testutil"
	"github.com/d60-Lab/gin-blog/pkg/password"
)

type services struct {
	db       *gorm.DB
	auth     AuthService
	posts    PostService
	comments CommentService
}

func newServices(t *testing.T) services {
	t.Helper()
	db := testutil.NewDB(t)
	hasher := password.NewHasher(password.Params{N: 1024, R: 8, P: 1, SaltLength: 8})
	postRepo := repository.NewPostRepository(db)
	return services{
		db:       db,
		auth:     NewAuthService(repository.NewUserRepository(db), hasher),
		posts:    NewPostService(postRepo),
		comments: NewCommentService(repository.NewCommentRepository(db), postRepo),
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	a, err := s.auth.Register(ctx, RegisterInput{Email: " A@x.com ", Password: "pw1", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), a.ID)
	assert.Equal(t, "a@x.com", a.Email)
	assert.NotEqual(t, "pw1", a.Password)

	b, err := s.auth.Register(ctx, RegisterInput{Email: "b@x.com", Password: "pw2", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), b.ID)

	got, err := s.auth.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = s.auth.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.auth.Authenticate(ctx, "ghost@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmailWritesNothing(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw1", Name: "A"})
	require.NoError(t, err)

	_, err = s.auth.Register(ctx, RegisterInput{Email: "A@X.COM", Password: "other", Name: "A2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var n int64
	require.NoError(t, s.db.Model(&model.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

// 预检查之后发生的并发注册由唯一约束拦截
type racingUsers struct {
	repository.UserRepository
}

func (r racingUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterUniqueConstraintIsAuthoritative(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "a@x.com", "A")
	hasher := password.NewHasher(password.Params{N: 1024, R: 8, P: 1, SaltLength: 8})
	auth := NewAuthService(racingUsers{repository.NewUserRepository(db)}, hasher)

	_, err := auth.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw", Name: "A"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUsersByID(t *testing.T) {
	s := newServices(t)
	a := testutil.SeedUser(t, s.db, "a@x.com", "A")
	b := testutil.SeedUser(t, s.db, "b@x.com", "B")

	m, err := s.auth.UsersByID(context.Background(), []uint{a.ID, b.ID, a.ID, 42})
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, "B", m[b.ID].Name)

	_, err = s.auth.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostLifecycle(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, s.db, "a@x.com", "A")
	editor := testutil.SeedUser(t, s.db, "b@x.com", "B")

	ps := s.posts.(*postService)
	ps.now = func() time.Time { return time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC) }

	p, err := s.posts.Create(ctx, admin.ID, PostInput{Title: " Hello ", Subtitle: "sub", Body: "<p>b</p>", ImgURL: "https://x/i.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "March 05, 2026", p.Date)

	_, err = s.posts.Create(ctx, admin.ID, PostInput{Title: "Hello", Subtitle: "s", Body: "b", ImgURL: "https://x"})
	assert.ErrorIs(t, err, ErrTitleTaken)

	ps.now = func() time.Time { return time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC) }
	up, err := s.posts.Update(ctx, p.ID, editor.ID, PostInput{Title: "Hello v2", Subtitle: "sub2", Body: "<p>c</p>", ImgURL: "https://x/j.jpg"})
	require.NoError(t, err)
	assert.Equal(t, editor.ID, up.AuthorID)

	got, err := s.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello v2", got.Title)
	assert.Equal(t, "March 05, 2026", got.Date)

	_, err = s.posts.Update(ctx, 999, editor.ID, PostInput{Title: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, s.posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.posts.Delete(ctx, p.ID), ErrPostNotFound)
	_, err = s.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentLifecycle(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, s.db, "a@x.com", "A")
	p := testutil.SeedPost(t, s.db, u.ID, "post")

	c, err := s.comments.Create(ctx, p.ID, u.ID, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Text)

	_, err = s.comments.Create(ctx, 999, u.ID, "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)

	list, err := s.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, u.ID, list[0].AuthorID)

	postID, err := s.comments.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, postID)

	_, err = s.comments.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
