package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/testutil"
)

func BenchmarkCommentWrite(b *testing.B) {
	db := testutil.NewDB(b)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	// 预创建用户和文章
	users := make([]*model.User, 100)
	for i := range users {
		users[i] = testutil.SeedUser(b, db, fmt.Sprintf("u%03d@example.com", i), fmt.Sprintf("u%03d", i))
	}
	posts := make([]*model.Post, 20)
	for i := range posts {
		posts[i] = testutil.SeedPost(b, db, users[0].ID, fmt.Sprintf("post-%02d", i))
	}

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := &model.Comment{
			Text:     "benchmark comment",
			AuthorID: users[rng.Intn(len(users))].ID,
			PostID:   posts[rng.Intn(len(posts))].ID,
		}
		if err := comments.Create(ctx, c); err != nil {
			b.Fatalf("create comment: %v", err)
		}
	}
}

func BenchmarkReadPostPage(b *testing.B) {
	db := testutil.NewDB(b)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	// 构造：一篇热门文章有 N 条评论，另有若干普通文章
	const N = 2000
	admin := testutil.SeedUser(b, db, "admin@example.com", "admin")
	hot := testutil.SeedPost(b, db, admin.ID, "hot")
	for i := 0; i < 50; i++ {
		testutil.SeedPost(b, db, admin.ID, fmt.Sprintf("cold-%02d", i))
	}
	batch := make([]model.Comment, 0, N)
	for i := 0; i < N; i++ {
		batch = append(batch, model.Comment{Text: fmt.Sprintf("c%d", i), AuthorID: admin.ID, PostID: hot.ID})
	}
	if err := db.CreateInBatches(&batch, 500).Error; err != nil {
		b.Fatalf("seed comments: %v", err)
	}

	b.ResetTimer()
	b.Run("ListPosts", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = postRepo.List(ctx)
		}
	})

	b.Run("PostWithComments", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = postRepo.GetByID(ctx, hot.ID)
			_, _ = commentRepo.ListByPost(ctx, hot.ID)
			_, _ = userRepo.ListByIDs(ctx, []uint{admin.ID})
		}
	})

	b.Run("GetByEmail", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = userRepo.GetByEmail(ctx, "admin@example.com")
		}
	})
}
