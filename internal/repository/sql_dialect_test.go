package repository

import (
	"strings"
	"testing"
)

func TestBuildSearchLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildSearchLikeConditionByDialect("sqlite", []string{"title", "excerpt"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "title LIKE ? OR excerpt LIKE ?" {
		t.Fatalf("unexpected condition: %s", condition)
	}
}

func TestBuildSearchLikeConditionPostgres(t *testing.T) {
	condition, _ := buildSearchLikeConditionByDialect("postgres", []string{"title", "excerpt"})
	if !strings.Contains(condition, "ILIKE") {
		t.Fatalf("postgres should use ILIKE, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%abc%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for _, arg := range args {
		if arg != "%abc%" {
			t.Fatalf("unexpected arg %v", arg)
		}
	}
}
