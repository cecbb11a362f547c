package main

import (
	"context"
	"fmt"
	"log"

	"github.com/postboard/internal/config"
	"github.com/postboard/internal/db"
	"github.com/postboard/internal/identity"
	"github.com/postboard/internal/service"
	"gorm.io/gorm"
)

type demoUser struct {
	email    string
	password string
	nickname string
}

var demoUsers = []demoUser{
	{email: "admin@postboard.local", password: "admin123", nickname: "Admin"},
	{email: "reader@postboard.local", password: "reader123", nickname: "Reader"},
}

var demoPosts = []service.PostInput{
	{Title: "Welcome to postboard", Body: "This board keeps posts, comments and likes in **one** place."},
	{Title: "Markdown works", Body: "Lists render too:\n\n- first\n- second\n\nLinks like https://example.com are linked."},
	{Title: "Quiet post", Body: "Nobody has commented on this one yet."},
}

// 测试数据生成器
func main() {
	cfg := config.Load()
	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")
	if err := seed(context.Background(), gdb); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	fmt.Println("测试数据生成完成！")
	for _, user := range demoUsers {
		fmt.Printf("用户: %s (密码: %s)\n", user.email, user.password)
	}
}

// seed creates the demo accounts and, when the board is empty, a few posts with
// comments and likes. Running it again leaves existing content alone.
func seed(ctx context.Context, gdb *gorm.DB) error {
	callers := make([]identity.Identity, 0, len(demoUsers))
	for _, demo := range demoUsers {
		if err := db.EnsureUser(gdb, demo.email, demo.password, demo.nickname); err != nil {
			return fmt.Errorf("ensure user %s: %w", demo.email, err)
		}
		user, err := db.FindUserByEmail(gdb, demo.email)
		if err != nil {
			return fmt.Errorf("load user %s: %w", demo.email, err)
		}
		callers = append(callers, identity.Identity{
			UserID:    user.ID,
			Email:     user.Email,
			Username:  user.Username,
			Nickname:  user.Nickname,
			AvatarRef: user.ProfileImage,
		})
	}

	store := service.NewContentStore(gdb)
	existing, err := store.ListPosts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Println("文章已存在，跳过创建")
		return nil
	}

	author, reader := callers[0], callers[1]
	for i, input := range demoPosts {
		post, err := store.CreatePost(ctx, author, input)
		if err != nil {
			return fmt.Errorf("create post %q: %w", input.Title, err)
		}
		if i == len(demoPosts)-1 {
			continue
		}
		if _, err := store.AddComment(ctx, post.ID, reader, "Thanks for writing this."); err != nil {
			return fmt.Errorf("comment on post %d: %w", post.ID, err)
		}
		if _, err := store.ToggleLike(ctx, post.ID, reader.UserID); err != nil {
			return fmt.Errorf("like post %d: %w", post.ID, err)
		}
	}

	fmt.Printf("✅ 已创建 %d 篇文章\n", len(demoPosts))
	return nil
}
