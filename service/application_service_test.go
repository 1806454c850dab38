package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifrota/pkg/models"
	"taxifrota/storage"
)

func TestSubmitApplication(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	app, err := e.svc.Application().Submit(ctx, validApplication())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "João Souza", app.FullName)
	assert.Equal(t, "52998224725", app.CPF)
	assert.Equal(t, "11987654321", app.Phone)
	assert.Equal(t, "joao@example.com", app.Email)
	assert.Equal(t, "01310-100", app.Address.CEP)
	assert.Equal(t, "SP", app.Address.State)
	assert.NotNil(t, app.References)
	assert.NotNil(t, app.Documents.Others)

	unread, err := e.stg.Notification().GetUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, models.NotificationNewApplication, unread[0].Type)
	assert.Equal(t, app.ID, unread[0].ApplicationID)
	assert.Equal(t, "Nova solicitação recebida de João Souza - Avaliação: 4 estrelas", unread[0].Message)

	require.Len(t, e.notifier.apps, 1)
	assert.Equal(t, app.ID, e.notifier.apps[0].ID)
	assert.Equal(t, 1, e.cache.invalidated)
}

func TestSubmitApplicationValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	in := validApplication()
	in.CPF = "111.111.111-11"
	in.Phone = "1234"
	in.Email = "nope"
	in.FirstName = ""

	_, err := e.svc.Application().Submit(ctx, in)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CPF inválido", verr.Fields["cpf"])
	assert.Equal(t, "telefone inválido", verr.Fields["phone"])
	assert.Equal(t, "email inválido", verr.Fields["email"])
	assert.Equal(t, "campo obrigatório", verr.Fields["first_name"])

	n, err := e.stg.Application().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, e.notifier.apps)
}

func TestApplicationStatusTransitions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	apps := e.svc.Application()

	app, err := apps.Submit(ctx, validApplication())
	require.NoError(t, err)

	out, err := apps.ChangeStatus(ctx, app.ID, models.ApplicationApproved, "ops@frota.com")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, out.Status)

	_, err = apps.ChangeStatus(ctx, app.ID, models.ApplicationRejected, "ops@frota.com")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	history, err := apps.History(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "pending", history[0].From)
	assert.Equal(t, "approved", history[0].To)
	assert.Equal(t, "ops@frota.com", history[0].Actor)

	_, err = apps.ChangeStatus(ctx, "missing", models.ApplicationApproved, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestApplicationLegacyStatus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	legacy, err := e.stg.Application().Add(ctx, &models.Application{FirstName: "Ana", Status: "Aguardar"})
	require.NoError(t, err)

	out, err := e.svc.Application().ChangeStatus(ctx, legacy.ID, models.ApplicationRejected, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, out.Status)

	history, err := e.svc.Application().History(ctx, legacy.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "waiting", history[0].From)
	assert.Equal(t, "system", history[0].Actor)
}

func TestAddReviewAndReanalysis(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	apps := e.svc.Application()

	app, err := apps.Submit(ctx, validApplication())
	require.NoError(t, err)

	out, err := apps.AddReview(ctx, app.ID, ReviewInput{
		Comment:           "CNH vencida",
		Status:            models.ApplicationRejected,
		DocumentsVerified: true,
	}, "analista")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, out.Status)
	require.Len(t, out.Reviews, 1)
	assert.Equal(t, "analista", out.Reviews[0].Analyst)
	assert.True(t, out.Reviews[0].DocumentsVerified)

	_, err = apps.AddReview(ctx, app.ID, ReviewInput{Comment: "ok", Status: models.ApplicationApproved}, "analista")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// A second review with the same status is a plain comment.
	out, err = apps.AddReview(ctx, app.ID, ReviewInput{Comment: "aguardando nova CNH", Status: "Reprovado"}, "analista")
	require.NoError(t, err)
	assert.Len(t, out.Reviews, 2)

	out, err = apps.RequestReanalysis(ctx, app.ID, &SubRecordsEdit{
		Documents:  &models.ApplicationDocuments{CNH: true},
		References: []models.Reference{{Name: "Carlos", Phone: "11999990000", Relationship: "ex-frota"}},
	}, "analista")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReanalysis, out.Status)
	assert.True(t, out.Documents.CNH)
	assert.NotNil(t, out.Documents.Others)
	require.Len(t, out.References, 1)
	assert.Len(t, out.Reviews, 2)

	history, err := apps.History(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = apps.RequestReanalysis(ctx, app.ID, nil, "analista")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestListApplicationsSearch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	apps := e.svc.Application()

	_, err := apps.Submit(ctx, validApplication())
	require.NoError(t, err)
	other := validApplication()
	other.FirstName, other.LastName = "Maria", "Lima"
	other.CPF = "111.444.777-35"
	other.Email = "maria@example.com"
	other.Phone = "21912345678"
	second, err := apps.Submit(ctx, other)
	require.NoError(t, err)
	_, err = apps.ChangeStatus(ctx, second.ID, models.ApplicationWaiting, "")
	require.NoError(t, err)

	found, err := apps.List(ctx, ApplicationFilter{Search: "joao"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "João Souza", found[0].FullName)

	found, err = apps.List(ctx, ApplicationFilter{Search: "111.444"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)

	found, err = apps.List(ctx, ApplicationFilter{Status: models.ApplicationWaiting})
	require.NoError(t, err)
	require.Len(t, found, 1)

	all, err := apps.List(ctx, ApplicationFilter{OrderBy: "full_name", Asc: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "João Souza", all[0].FullName)

	_, err = apps.List(ctx, ApplicationFilter{OrderBy: "cpf; drop"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = apps.List(ctx, ApplicationFilter{Status: "bogus"})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	counts, err := apps.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["pending"])
	assert.Equal(t, 1, counts["waiting"])
	assert.Equal(t, 0, counts["approved"])
}

func TestEditApplicationKeepsReviews(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	apps := e.svc.Application()

	app, err := apps.Submit(ctx, validApplication())
	require.NoError(t, err)
	_, err = apps.AddReview(ctx, app.ID, ReviewInput{Comment: "ok", Status: models.ApplicationWaiting}, "a")
	require.NoError(t, err)

	out, err := apps.Edit(ctx, app.ID, ApplicationEdit{
		FirstName:  "João",
		LastName:   "Souza Filho",
		Email:      "joao@example.com",
		Phone:      "11987654321",
		CPF:        "52998224725",
		Rating:     5,
		Experience: models.Experience{Years: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "João Souza Filho", out.FullName)
	assert.Equal(t, 3, out.Experience.Years)
	assert.NotNil(t, out.Experience.Rentals)
	assert.Equal(t, models.ApplicationWaiting, out.Status)
	assert.Len(t, out.Reviews, 1)

	require.NoError(t, apps.Delete(ctx, app.ID))
	_, err = apps.Get(ctx, app.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
