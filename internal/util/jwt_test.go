package util

import (
	"testing"
	"time"

	"classquiz_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "ada@school.io",
		Role:      model.Teacher,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "ada@school.io" || claims.Role != model.Teacher {
		t.Errorf("claims mangled: %+v", claims)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Email: "a@x.io", Role: model.Student}
	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Email: "a@x.io", Role: model.Student}
	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(token, "test-secret"); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", "test-secret"); err == nil {
		t.Error("garbage token was accepted")
	}
}
