package jwtx_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/lunch/pkg/cryptox"
	"github.com/aussiebroadwan/lunch/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://lunch.test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	s, err := jwtx.GenerateSignerEdDSA(kid)
	require.NoError(t, err)
	return s
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	ks := jwtx.NewKeySet()
	require.NoError(t, ks.AddSigner(signer))

	now := time.Now().UTC()
	claims := jwtx.NewIDClaims("uid-1", "ada@example.com", "Ada", 5*time.Minute, testIssuer, []string{"lunch"}, now)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{Issuer: testIssuer, Audience: []string{"lunch"}})
	got, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "uid-1", got.Subject)
	require.Equal(t, "ada@example.com", got.Email)
	require.Equal(t, "Ada", got.Name)
	require.NotEmpty(t, got.ID)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	ks := jwtx.NewKeySet()
	require.NoError(t, ks.AddSigner(signer))

	now := time.Now().UTC()
	sign := func(c jwtx.Claims) string {
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		return tok
	}
	valid := jwtx.NewIDClaims("uid-1", "", "", time.Minute, testIssuer, []string{"lunch"}, now)

	t.Run("wrong issuer", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{Issuer: "someone-else"})
		_, err := v.Verify(sign(valid))
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{Audience: []string{"other"}})
		_, err := v.Verify(sign(valid))
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("expired", func(t *testing.T) {
		old := jwtx.NewIDClaims("uid-1", "", "", time.Minute, testIssuer, nil, now.Add(-time.Hour))
		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{})
		_, err := v.Verify(sign(old))
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("expired within leeway", func(t *testing.T) {
		c := jwtx.NewIDClaims("uid-1", "", "", time.Minute, testIssuer, nil, now.Add(-70*time.Second))
		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{Leeway: 30 * time.Second})
		_, err := v.Verify(sign(c))
		require.NoError(t, err)
	})

	t.Run("not yet valid", func(t *testing.T) {
		future := jwtx.NewIDClaims("uid-1", "", "", time.Minute, testIssuer, nil, now.Add(time.Hour))
		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{})
		_, err := v.Verify(sign(future))
		require.ErrorIs(t, err, jwtx.ErrNotYetValid)
	})

	t.Run("unknown key", func(t *testing.T) {
		other := newSigner(t, "k2")
		tok, err := other.Sign(valid)
		require.NoError(t, err)

		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{})
		_, err = v.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, valid)
		tok.Header["kid"] = "k1"
		raw, err := tok.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{})
		_, err = v.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("garbage", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA(ks, jwtx.VerifyOptions{})
		_, err := v.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestNewSignerEdDSA_RejectsBadPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("k", []byte("not-a-pem-key"))
	require.ErrorContains(t, err, "invalid PEM")

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	relabelled := strings.Replace(string(pemKey), "PRIVATE KEY", "EC PRIVATE KEY", 2)
	_, err = jwtx.NewSignerEdDSA("k", []byte(relabelled))
	require.Error(t, err)
}

func TestJWK_PEM(t *testing.T) {
	signer := newSigner(t, "k1")
	jwk := signer.PublicJWK()
	require.Equal(t, "OKP", jwk.Kty)
	require.Equal(t, "Ed25519", jwk.Crv)

	pemStr, err := jwk.PEM()
	require.NoError(t, err)

	block, _ := pem.Decode([]byte(pemStr))
	require.NotNil(t, block)
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	_, ok := parsed.(ed25519.PublicKey)
	require.True(t, ok)

	_, err = jwtx.JWK{Kty: "RSA"}.PEM()
	require.ErrorContains(t, err, "unsupported kty")

	_, err = jwtx.JWK{Kty: "OKP", Crv: "Ed25519", X: "!!!"}.PEM()
	require.Error(t, err)
}

func TestKeySet(t *testing.T) {
	ks := jwtx.NewKeySet()
	require.False(t, ks.IsReady())

	s := newSigner(t, "k1")
	require.NoError(t, ks.AddSigner(s))
	require.NoError(t, ks.AddSigner(s), "re-adding a kid replaces it")
	require.Len(t, ks.PublicJWKS().Keys, 1)
	require.True(t, ks.IsReady())

	ks.Remove("k1")
	_, err := ks.Get("k1")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
	require.Empty(t, ks.PublicJWKS().Keys)
}

func TestKeyManager_Rotate(t *testing.T) {
	_, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err, "issuer is required")

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		VerifyOptions: jwtx.VerifyOptions{Issuer: testIssuer},
		Retain:        1,
	})
	require.NoError(t, err)
	require.True(t, km.IsReady())

	claims := jwtx.NewIDClaims("uid-1", "", "", time.Minute, testIssuer, nil, time.Now())
	first, err := km.Sign(claims)
	require.NoError(t, err)
	firstKID := km.Signer().KID()

	require.NoError(t, km.Rotate())
	require.NotEqual(t, firstKID, km.Signer().KID())

	_, err = km.Verifier.Verify(first)
	require.NoError(t, err, "retained keys still verify")

	require.NoError(t, km.Rotate())
	_, err = km.Verifier.Verify(first)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID, "keys past the retention window are dropped")
	require.Len(t, km.KeySet.PublicJWKS().Keys, 2)
}
