package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
	"taxifrota/storage/memory"
)

func registration() DriverRegistration {
	return DriverRegistration{
		Name:          "Carlos Alberto Nunes",
		Phone:         "11 98888-7777",
		Email:         "carlos@example.com",
		CPF:           "529.982.247-25",
		LicenseNumber: "04512345678",
		Vehicle:       &models.VehicleInfo{Model: "Onix", Plate: "abc-1d23", Year: "2022"},
	}
}

func TestRegisterDriver(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	d, err := e.svc.Driver().Register(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, models.DriverPending, d.Status)
	assert.Equal(t, "Carlos", d.FirstName)
	assert.Equal(t, "Alberto Nunes", d.LastName)
	assert.Equal(t, "ABC1D23", d.Vehicle.Plate)
	require.Len(t, e.notifier.drivers, 1)

	unread, err := e.svc.Notification().ListUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, d.ID, unread[0].DriverID)
	require.NoError(t, e.svc.Notification().MarkRead(ctx, unread[0].ID))
	unread, err = e.svc.Notification().ListUnread(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = e.svc.Driver().Register(ctx, registration())
	assert.ErrorIs(t, err, ErrConflict)
	n, err := e.stg.Driver().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDriverStatusAndSearch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	drivers := e.svc.Driver()

	d, err := drivers.Create(ctx, DriverInput{
		FirstName: "Luíza",
		LastName:  "Prado",
		Email:     "luiza@example.com",
		Phone:     "21987654321",
		CPF:       "11144477735",
		Address:   models.Address{CEP: "20040002", State: "rj"},
	})
	require.NoError(t, err)
	assert.Equal(t, "20040-002", d.Address.CEP)
	assert.Equal(t, "RJ", d.Address.State)

	out, err := drivers.ChangeStatus(ctx, d.ID, models.DriverActive, "ops")
	require.NoError(t, err)
	assert.Equal(t, models.DriverActive, out.Status)
	require.NotNil(t, out.LastStatusAt)

	_, err = drivers.ChangeStatus(ctx, d.ID, models.DriverPending, "ops")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	found, err := drivers.List(ctx, DriverFilter{Search: "luiza"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = drivers.List(ctx, DriverFilter{Status: models.DriverPending})
	require.NoError(t, err)
	assert.Empty(t, found)
	found, err = drivers.List(ctx, DriverFilter{Status: models.DriverActive, Search: "98765"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestDriverUpdateKeepsStatusAndFiles(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	drivers := e.svc.Driver()

	d, err := drivers.Register(ctx, registration())
	require.NoError(t, err)
	_, err = drivers.UploadFile(ctx, d.ID, models.FileCNH, strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	_, err = drivers.ChangeStatus(ctx, d.ID, models.DriverActive, "")
	require.NoError(t, err)

	out, err := drivers.Update(ctx, d.ID, DriverInput{
		FirstName: "Carlos",
		LastName:  "Nunes",
		Email:     "carlos@example.com",
		Phone:     "11988887777",
		CPF:       "52998224725",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DriverActive, out.Status)
	assert.Contains(t, out.Files, models.FileCNH)
	assert.Equal(t, "Nunes", out.LastName)
}

func TestUploadFileReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	drivers := e.svc.Driver()

	d, err := drivers.Register(ctx, registration())
	require.NoError(t, err)

	first, err := drivers.UploadFile(ctx, d.ID, models.FileCNH, strings.NewReader("v1"), 2, "image/png")
	require.NoError(t, err)
	firstURL := first.Files[models.FileCNH]
	assert.True(t, strings.HasPrefix(firstURL, "https://files.test/drivers/52998224725/cnh_"))
	assert.Equal(t, 1, e.files.Len())

	second, err := drivers.UploadFile(ctx, d.ID, models.FileCNH, strings.NewReader("v2"), 2, "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, firstURL, second.Files[models.FileCNH])
	assert.Equal(t, 1, e.files.Len())

	_, err = drivers.UploadFile(ctx, d.ID, models.FileProfilePhoto, strings.NewReader("img"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 2, e.files.Len())

	_, err = drivers.UploadFile(ctx, d.ID, "passport", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, drivers.Delete(ctx, d.ID))
	assert.Zero(t, e.files.Len())
	_, err = drivers.Get(ctx, d.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// staleReads hides existing CPFs and slugs from lookups, the way a
// concurrent insert that has not committed yet would.
type staleReads struct {
	storage.IStorage
}

func (s staleReads) WithTx(ctx context.Context, fn func(stg storage.IStorage) error) error {
	return s.IStorage.WithTx(ctx, func(tx storage.IStorage) error {
		return fn(staleReads{tx})
	})
}

func (s staleReads) Driver() storage.IDriverStorage   { return staleDrivers{s.IStorage.Driver()} }
func (s staleReads) Article() storage.IArticleStorage { return staleArticles{s.IStorage.Article()} }

type staleDrivers struct {
	storage.IDriverStorage
}

func (staleDrivers) GetByCPF(ctx context.Context, cpf string) (*models.Driver, error) {
	return nil, nil
}

type staleArticles struct {
	storage.IArticleStorage
}

func (staleArticles) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	return nil, nil
}

func TestUniqueKeysRejectedByStorageAreConflicts(t *testing.T) {
	ctx := context.Background()
	svc := New(staleReads{memory.New(logger.NewNop())}, logger.NewNop())

	_, err := svc.Driver().Register(ctx, registration())
	require.NoError(t, err)
	_, err = svc.Driver().Register(ctx, registration())
	assert.ErrorIs(t, err, ErrConflict)

	drivers, err := svc.Driver().List(ctx, DriverFilter{})
	require.NoError(t, err)
	assert.Len(t, drivers, 1)

	_, err = svc.Content().CreateArticle(ctx, ArticleInput{Title: "Vantagens da frota", Body: "texto"})
	require.NoError(t, err)
	_, err = svc.Content().CreateArticle(ctx, ArticleInput{Title: "Vantagens da Frota", Body: "outro"})
	assert.ErrorIs(t, err, ErrConflict)
}
