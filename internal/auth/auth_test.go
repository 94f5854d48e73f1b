package auth

import (
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter42x")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter42x" {
		t.Fatal("哈希不应等于明文")
	}
	if !VerifyPassword(hash, "hunter42x") {
		t.Error("正确密码校验失败")
	}
	if VerifyPassword(hash, "wrong-pass1") {
		t.Error("错误密码不应通过")
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.com", "x+y@sub.domain.org"}
	invalid := []string{"", "plain", "no@tld", "a b@c.d", "@missing.local"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("abc123xy"); err != nil {
		t.Errorf("合法密码被拒: %v", err)
	}
	if err := ValidatePassword("short1"); err == nil {
		t.Error("过短密码应被拒")
	}
	if err := ValidatePassword("lettersonly"); err == nil {
		t.Error("纯字母密码应被拒")
	}
	if err := ValidatePassword("12345678"); err == nil {
		t.Error("纯数字密码应被拒")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	signed, err := tokens.Issue(42, "a@b.co")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@b.co" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	a, _ := NewTokens("secret-a", time.Hour)
	b, _ := NewTokens("secret-b", time.Hour)

	signed, _ := a.Issue(1, "x@y.zz")
	if _, err := b.Parse(signed); err == nil {
		t.Error("异密钥签名应被拒")
	}
}

func TestTokenExpired(t *testing.T) {
	tokens, _ := NewTokens("test-secret", -time.Hour)
	// ttl<=0 会回退到默认值，构造过期令牌需要负 ttl 的 Tokens
	tokens.ttl = -time.Hour

	signed, err := tokens.Issue(1, "x@y.zz")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tokens.Parse(signed); err == nil {
		t.Error("过期令牌应被拒")
	}
}

func TestNewTokensEmptySecret(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Error("空密钥应报错")
	}
}
