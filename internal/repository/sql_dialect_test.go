package repository

import (
	"strings"
	"testing"
)

func TestBuildLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildLikeCondition(nil, []string{"name", " sku ", ""})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name LIKE ? OR sku LIKE ?" {
		t.Fatalf("unexpected sqlite condition: %s", condition)
	}
}

func TestBuildLikeConditionPostgres(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", []string{"name", "sku"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if !strings.Contains(condition, "name ILIKE ?") {
		t.Fatalf("condition should contain name ILIKE, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}

func TestChunkIDs(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	chunks := chunkIDs(ids, 2)
	if len(chunks) != 3 {
		t.Fatalf("chunk count want 3 got %d", len(chunks))
	}
	if len(chunks[2]) != 1 || chunks[2][0] != 5 {
		t.Fatalf("last chunk want [5] got %v", chunks[2])
	}
	if got := chunkIDs(nil, 2); len(got) != 0 {
		t.Fatalf("empty ids want no chunks got %d", len(got))
	}
}
