package repository

import (
	"context"
	"testing"

	"github.com/sketch0395/focuszone/internal/schema"
	"github.com/sketch0395/focuszone/internal/testutil"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &schema.User{Email: "a@b.co", PasswordHash: "hash", DisplayName: "A"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Create 未回填 ID")
	}

	got, err := repo.GetByEmail(ctx, "a@b.co")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("GetByEmail = %+v", got)
	}

	got, err = repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Email != "a@b.co" {
		t.Errorf("GetByID = %+v", got)
	}
}

func TestUserRepositoryNotFoundIsNil(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	got, err := repo.GetByEmail(ctx, "nobody@x.yz")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got != nil {
		t.Error("不存在的用户应返回 nil")
	}

	got, err = repo.GetByID(ctx, 999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Error("不存在的 ID 应返回 nil")
	}
}

func TestUserRepositoryDeleteCascades(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserRepository(db)
	data := NewUserDataRepository(db)
	ctx := context.Background()

	user := &schema.User{Email: "a@b.co", PasswordHash: "hash"}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := data.Upsert(ctx, user.ID, schema.DataTypePet, `{"name":"Mochi"}`); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := data.Upsert(ctx, user.ID, schema.DataTypeUsage, `{}`); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := users.GetByID(ctx, user.ID)
	if err != nil || got != nil {
		t.Errorf("用户未删除: %+v, %v", got, err)
	}
	count, err := data.CountForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountForUser: %v", err)
	}
	if count != 0 {
		t.Errorf("级联删除后仍有 %d 行数据", count)
	}
}
