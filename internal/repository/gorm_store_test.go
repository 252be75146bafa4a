package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/campus-marketplace/internal/models"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrForeignKeyViolated), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.Equal(t, other, translate(other))
}

func TestGormStore_HideProduct(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "visible"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.HideProduct(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_HideProductMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "visible"=`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.HideProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SetPermissionLevel(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "profiles" SET "permission_level"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetPermissionLevel(context.Background(), uuid.New(), models.PermissionBanned))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementOfferCountIsAtomic(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "products" SET "num_offers"=num_offers \+ \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, incrementOfferCount(store.db, uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRatingIsSingleStatement(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "profiles" SET .*ROUND\(\(rating_sum \+ \$\d+\)::numeric / \(num_ratings \+ 1\), 1\).*"rating_sum"=rating_sum \+ \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, applyRating(store.db, uuid.New(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRatingMissingProfile(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "profiles" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, applyRating(store.db, uuid.New(), 4), ErrNotFound)
}

func TestGormStore_CountReports(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reports" WHERE target_type = $1 AND reported_product_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := store.CountReports(context.Background(), models.ReportTargetProduct, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_OfferExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "offers" WHERE offerer_id = $1 AND product_id = $2 AND "offers"."deleted_at" IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := store.OfferExists(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpdateProductMissing(t *testing.T) {
	store, mock := newMockStore(t)
	name := "Casio fx-991"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateProduct(context.Background(), uuid.New(), ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_QuestionsForProduct(t *testing.T) {
	store, mock := newMockStore(t)
	productID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "questions" WHERE product_id = $1 AND "questions"."deleted_at" IS NULL ORDER BY created_at`)).
		WithArgs(productID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "question", "answer", "is_answered"}).
			AddRow(uuid.NewString(), productID.String(), "Is the scale included?", "Yes", true))

	questions, err := store.QuestionsForProduct(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Yes", questions[0].Answer)
	assert.True(t, questions[0].IsAnswered)
	assert.NoError(t, mock.ExpectationsWereMet())
}
