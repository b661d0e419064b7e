package adapters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyPassword(hash, "correct horse"))
	assert.Error(t, svc.VerifyPassword(hash, "wrong horse"))

	assert.Error(t, svc.ValidatePasswordStrength("short"))
	assert.Error(t, svc.ValidatePasswordStrength(strings.Repeat("x", 73)))
	assert.NoError(t, svc.ValidatePasswordStrength("exactly8"))
}

func TestPasswordService_FallsBackToDefaultCost(t *testing.T) {
	svc := NewPasswordService(99).(*passwordService)
	assert.Equal(t, DefaultBcryptCost, svc.cost)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	user := entity.NewUser("Admin", "admin@quickmate.io", "hash", entity.RoleAdmin)

	token, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestTokenService_Rejections(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	user := entity.NewUser("Admin", "admin@quickmate.io", "hash", entity.RoleAdmin)
	ctx := context.Background()

	other, err := NewTokenService("other-secret", time.Minute).GenerateAccessToken(ctx, user)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, other.Token)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)

	_, err = svc.ValidateAccessToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)

	past := time.Now().Add(-time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		UserID:    user.ID.String(),
		Role:      string(user.Role),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
			Issuer:    tokenIssuer,
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, expired)
	assert.ErrorIs(t, err, domainerror.ErrExpiredToken)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		UserID:    user.ID.String(),
		Role:      "Root",
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    tokenIssuer,
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, badRole)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
}

type fakeUploadAPI struct {
	uploadedPath string
	params       uploader.UploadParams
	result       *uploader.UploadResult
	err          error
	destroyed    []string
}

func (f *fakeUploadAPI) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploadedPath, _ = file.(string)
	f.params = params
	return f.result, f.err
}

func (f *fakeUploadAPI) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = append(f.destroyed, params.PublicID)
	return &uploader.DestroyResult{Result: "ok"}, nil
}

func tempIcon(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
	return path
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	fake := &fakeUploadAPI{result: &uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/image/upload/quickmate_images/icon.png",
		PublicID:  "quickmate_images/icon",
	}}
	u := newCloudinaryUploader(fake, "")
	path := tempIcon(t)

	image, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, fake.result.SecureURL, image.URL)
	assert.Equal(t, "quickmate_images/icon", image.PublicID)

	assert.Equal(t, path, fake.uploadedPath)
	assert.Equal(t, DefaultImageFolder, fake.params.Folder)
	assert.Equal(t, iconTransformation, fake.params.Transformation)
	assert.Equal(t, api.Bool(true), fake.params.UniqueFilename)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "temp file should be removed")
}

func TestCloudinaryUploader_FailuresRemoveTempFile(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeUploadAPI
	}{
		{name: "transport error", fake: &fakeUploadAPI{err: errors.New("connection reset")}},
		{name: "api error", fake: &fakeUploadAPI{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempIcon(t)

			_, err := newCloudinaryUploader(tt.fake, "icons").Upload(context.Background(), path)
			var uploadErr *domainerror.UploadError
			require.True(t, errors.As(err, &uploadErr))
			assert.Equal(t, domainerror.ErrCodeImageUploadFailed, uploadErr.Code)

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestCloudinaryUploader_Delete(t *testing.T) {
	fake := &fakeUploadAPI{}
	require.NoError(t, newCloudinaryUploader(fake, "icons").Delete(context.Background(), "icons/abc"))
	assert.Equal(t, []string{"icons/abc"}, fake.destroyed)
}

func TestDisabledUploader(t *testing.T) {
	path := tempIcon(t)

	_, err := NewDisabledUploader().Upload(context.Background(), path)
	assert.ErrorIs(t, err, domainerror.ErrImageUploadFailed)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.NoError(t, NewDisabledUploader().Delete(context.Background(), "anything"))
}

func TestNewCloudinaryUploader_EmptyURL(t *testing.T) {
	_, err := NewCloudinaryUploader("", "", "")
	assert.Error(t, err)
}
