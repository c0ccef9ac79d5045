package jwtPkg

import (
	"UBASAnthropometry/internal/entity"
	"errors"
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestSignVerify(t *testing.T) {
	user := entity.UserLoginData{ID: "u-1", Username: "dr.lee", Email: "lee@clinic.test"}

	token, err := Sign(user, time.Hour, secret)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	claims, err := Verify(token, secret)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.User() != user {
		t.Errorf("User() = %+v, want %+v", claims.User(), user)
	}

	if _, err := Verify(token, []byte("other")); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestVerifyRejects(t *testing.T) {
	expired, _ := Sign(entity.UserLoginData{ID: "u", Username: "u", Email: "e"}, -time.Minute, secret)
	partial, _ := Sign(entity.UserLoginData{ID: "u"}, time.Hour, secret)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "expired", token: expired},
		{name: "missing claims", token: partial, want: ErrIncompleteUser},
		{name: "garbage", token: "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.token, secret)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Verify(partial, nil); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("error = %v, want ErrMissingSecret", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "Bearer   abc  ", want: "abc"},
		{header: "Bearer ", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}
