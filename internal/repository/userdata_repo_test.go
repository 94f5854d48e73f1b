package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sketch0395/focuszone/internal/schema"
	"github.com/sketch0395/focuszone/internal/testutil"
)

func TestUserDataUpsertReplacesRow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserDataRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, 1, schema.DataTypePet, `{"name":"Mochi"}`); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	first, err := repo.Get(ctx, 1, schema.DataTypePet)
	if err != nil || first == nil {
		t.Fatalf("Get: %+v, %v", first, err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := repo.Upsert(ctx, 1, schema.DataTypePet, `{"name":"Cloud"}`); err != nil {
		t.Fatalf("Upsert 2: %v", err)
	}

	second, err := repo.Get(ctx, 1, schema.DataTypePet)
	if err != nil || second == nil {
		t.Fatalf("Get 2: %+v, %v", second, err)
	}
	if second.Data != `{"name":"Cloud"}` {
		t.Errorf("Data = %q", second.Data)
	}
	if !second.LastSynced.After(first.LastSynced) {
		t.Error("Upsert 应刷新 last_synced")
	}

	// 同键只允许一行
	count, err := repo.CountForUser(ctx, 1)
	if err != nil {
		t.Fatalf("CountForUser: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestUserDataGetMissingIsNil(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserDataRepository(db)

	got, err := repo.Get(context.Background(), 1, schema.DataTypeRoutine)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("不存在的行应返回 nil")
	}
}

func TestUserDataGetAllIsolatedPerUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserDataRepository(db)
	ctx := context.Background()

	_ = repo.Upsert(ctx, 1, schema.DataTypePet, `{}`)
	_ = repo.Upsert(ctx, 1, schema.DataTypeUsage, `{}`)
	_ = repo.Upsert(ctx, 2, schema.DataTypePet, `{}`)

	rows, err := repo.GetAll(ctx, 1)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("len(rows) = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.UserID != 1 {
			t.Errorf("串用户: %+v", row)
		}
	}
}

func TestUserDataDelete(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserDataRepository(db)
	ctx := context.Background()

	_ = repo.Upsert(ctx, 1, schema.DataTypePet, `{}`)
	if err := repo.Delete(ctx, 1, schema.DataTypePet); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := repo.Get(ctx, 1, schema.DataTypePet)
	if err != nil || got != nil {
		t.Errorf("删除后仍可读到: %+v, %v", got, err)
	}
}
