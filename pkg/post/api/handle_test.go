package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/notice"
	"github.com/chirper-app/gatekit/pkg/notification"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/post"
	"github.com/chirper-app/gatekit/pkg/tokengenerator"
	"github.com/chirper-app/gatekit/pkg/verification"
	verificationapi "github.com/chirper-app/gatekit/pkg/verification/api"
)

type guardedFixture struct {
	router   *chi.Mux
	notifier *notification.MockNotifier
	accounts *account.AccountService
	token    string
}

func newGuardedFixture(t *testing.T) *guardedFixture {
	t.Helper()

	notifier := notification.NewMockNotifier()
	nm := notification.NewNotificationManager()
	nm.RegisterNotifier(notification.EmailSystem, notifier)
	require.NoError(t, notice.RegisterTemplates(nm))

	accountRepo := account.NewMemoryAccountRepository()
	_, err := accountRepo.Create(context.Background(), account.CreateAccountParams{
		Email:        "dev@example.com",
		Name:         "Dev",
		PasswordHash: "irrelevant",
	})
	require.NoError(t, err)

	otpService := otp.NewOtpService(otp.NewMemoryOtpRepository(), nm)
	flow := verification.NewFlowService(otpService)
	accountService := account.NewAccountService(accountRepo)
	postService := post.NewPostService(post.NewMemoryPostRepository(), accountRepo, flow)

	secret := "test-secret"
	generator := tokengenerator.NewJwtTokenGenerator(secret, "gatekit", "gatekit")
	token, _, err := generator.GenerateToken("dev@example.com", time.Hour, nil)
	require.NoError(t, err)

	auth := jwtauth.New("HS256", []byte(secret), nil)
	r := chi.NewRouter()
	r.Group(func(authenticated chi.Router) {
		authenticated.Use(jwtauth.Verify(auth, jwtauth.TokenFromHeader))
		authenticated.Use(jwtauth.Authenticator(auth))
		verificationapi.NewHandler(flow, accountService).Routes(authenticated)
		NewHandler(postService).Routes(authenticated)
	})

	return &guardedFixture{
		router:   r,
		notifier: notifier,
		accounts: accountService,
		token:    token,
	}
}

func (f *guardedFixture) do(t *testing.T, path string, authed bool, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *guardedFixture) lastCode(t *testing.T, noticeType notification.NoticeType) string {
	t.Helper()
	for i := len(f.notifier.Sent) - 1; i >= 0; i-- {
		if f.notifier.Sent[i].NoticeType == noticeType {
			return f.notifier.Sent[i].Data["Code"]
		}
	}
	t.Fatalf("no %s notice was delivered", noticeType)
	return ""
}

func validPublishRequest() PublishAudioRequest {
	return PublishAudioRequest{
		Content:         "late night take",
		AudioURL:        "https://cdn.example.com/audio/take.webm",
		SizeBytes:       2 * 1024 * 1024,
		DurationSeconds: 31,
	}
}

func TestGuardedEndpointsRequireAuth(t *testing.T) {
	f := newGuardedFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/otp/audio/send", false, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/posts/audio", false, validPublishRequest()).Code)
}

func TestPublishRequiresGrant(t *testing.T) {
	f := newGuardedFixture(t)

	rec := f.do(t, "/posts/audio", true, validPublishRequest())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAudioPublishFlow(t *testing.T) {
	f := newGuardedFixture(t)

	require.Equal(t, http.StatusOK, f.do(t, "/otp/audio/send", true, nil).Code)
	code := f.lastCode(t, notice.AudioPostNotice)

	wrong := "999999"
	if wrong == code {
		wrong = "999998"
	}
	assert.Equal(t, http.StatusBadRequest, f.do(t, "/otp/audio/verify", true, VerifyRequestBody{Code: wrong}).Code)

	// A wrong guess does not invalidate the stored code.
	require.Equal(t, http.StatusOK, f.do(t, "/otp/audio/verify", true, VerifyRequestBody{Code: code}).Code)

	rec := f.do(t, "/posts/audio", true, validPublishRequest())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "late night take", resp.Content)

	// Grant spent; the next publish needs a new verification.
	assert.Equal(t, http.StatusForbidden, f.do(t, "/posts/audio", true, validPublishRequest()).Code)
}

func TestPublishValidation(t *testing.T) {
	f := newGuardedFixture(t)

	require.Equal(t, http.StatusOK, f.do(t, "/otp/audio/send", true, nil).Code)
	code := f.lastCode(t, notice.AudioPostNotice)
	require.Equal(t, http.StatusOK, f.do(t, "/otp/audio/verify", true, VerifyRequestBody{Code: code}).Code)

	oversized := validPublishRequest()
	oversized.SizeBytes = post.MaxAudioSizeBytes + 1
	assert.Equal(t, http.StatusBadRequest, f.do(t, "/posts/audio", true, oversized).Code)

	// The rejected publish kept the grant; a valid retry succeeds.
	assert.Equal(t, http.StatusCreated, f.do(t, "/posts/audio", true, validPublishRequest()).Code)
}

func TestLanguageChangeFlow(t *testing.T) {
	f := newGuardedFixture(t)
	ctx := context.Background()

	require.Equal(t, http.StatusOK, f.do(t, "/otp/language/send", true, nil).Code)
	code := f.lastCode(t, notice.LanguageChangeNotice)

	// Unsupported language is rejected before the code is consumed.
	rec := f.do(t, "/otp/language/verify", true, LanguageVerifyBody{Code: code, Language: "xx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusOK, f.do(t, "/otp/language/verify", true, LanguageVerifyBody{Code: code, Language: "fr"}).Code)

	acct, err := f.accounts.GetByEmail(ctx, "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.LangFrench, acct.PreferredLanguage)
}

// Request bodies for the verification endpoints, redeclared locally to keep
// the wire shape explicit in tests.
type VerifyRequestBody struct {
	Code string `json:"code"`
}

type LanguageVerifyBody struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}
