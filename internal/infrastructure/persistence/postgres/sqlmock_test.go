package postgres

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	"github.com/turtacn/usersvc/pkg/errors"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := OpenGorm(sqlDB)
	require.NoError(t, err)
	return db, mock
}

func TestConfirmationTokenRepository_ActivateIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConfirmationTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "confirmation_tokens" SET "activated"=$1 WHERE token = $2 AND activated = $3`)).
		WithArgs(true, "tok", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "confirmation_tokens" SET "activated"=$1 WHERE token = $2 AND activated = $3`)).
		WithArgs(true, "tok", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Activate(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Activate(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSigningKeyRepository_OnConflictDoNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSigningKeyRepository(db)

	mock.ExpectExec(`INSERT INTO "signing_keys" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreateIfAbsent(context.Background(), &models.SigningKey{ID: "jwt", EncryptedMaterial: []byte("c")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositories_StorageErrors(t *testing.T) {
	db, mock := newMockDB(t)
	tokens := NewConfirmationTokenRepository(db)
	keys := NewSigningKeyRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "confirmation_tokens"`).WillReturnError(stderrors.New("connection reset"))
	_, err := tokens.FindByToken(context.Background(), "tok")
	assert.True(t, errors.IsKind(err, errors.KindStorageFailure))
	assert.NotErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery(`SELECT \* FROM "signing_keys"`).WillReturnRows(sqlmock.NewRows([]string{"id", "encrypted_material", "created_at"}))
	_, err = keys.FindByID(context.Background(), "jwt")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
