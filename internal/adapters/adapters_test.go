package adapters

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"orderhub_backend/internal/adapters/storage"
	campaignports "orderhub_backend/internal/campaigns/ports"
	"orderhub_backend/internal/contacts"
	leadsrepo "orderhub_backend/internal/leads/repository"
	ordersrepo "orderhub_backend/internal/orders/repository"
	"orderhub_backend/internal/scheduler"
	"orderhub_backend/platform/apperr"

	"github.com/google/uuid"
)

type leadRepoStub struct {
	rows     []leadsrepo.Lead
	created  []leadsrepo.Lead
	assigned []uuid.UUID
}

func (s *leadRepoStub) GetByID(context.Context, uuid.UUID, uuid.UUID) (leadsrepo.Lead, error) {
	return leadsrepo.Lead{}, leadsrepo.ErrNotFound
}

func (s *leadRepoStub) ListByBusiness(context.Context, uuid.UUID) ([]leadsrepo.Lead, error) {
	return s.rows, nil
}

func (s *leadRepoStub) ListByModerator(context.Context, uuid.UUID, uuid.UUID) ([]leadsrepo.Lead, error) {
	return nil, nil
}

func (s *leadRepoStub) CreateMany(_ context.Context, leads []leadsrepo.Lead) (int, error) {
	s.created = append(s.created, leads...)
	return len(leads), nil
}

func (s *leadRepoStub) BulkAssign(_ context.Context, _ uuid.UUID, ids []uuid.UUID, _ uuid.UUID, _ time.Time) (int64, error) {
	s.assigned = append(s.assigned, ids...)
	return int64(len(ids)), nil
}

func (s *leadRepoStub) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, string) error { return nil }

func (s *leadRepoStub) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (s *leadRepoStub) DeleteMany(context.Context, uuid.UUID, []uuid.UUID) (int64, error) {
	return 0, nil
}

func TestCampaignLeadStoreListLeads(t *testing.T) {
	moderator := uuid.New()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &leadRepoStub{rows: []leadsrepo.Lead{{
		ID:           uuid.New(),
		PhoneNumber:  "01711000001",
		CustomerName: "Rahim",
		ModeratorID:  &moderator,
		Status:       "confirmed",
		AssignedDate: &day,
		CreatedAt:    time.Date(2024, 3, 1, 4, 0, 0, 0, time.FixedZone("BDT", 6*3600)),
	}}}

	leads, err := NewCampaignLeadStore(repo).ListLeads(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	got := leads[0]
	if got.AssignedDate != "2024-03-10" || got.Status != contacts.StatusConfirmed {
		t.Fatalf("unexpected lead %+v", got)
	}
	if got.CreatedAt != "2024-02-29T22:00:00Z" {
		t.Fatalf("created at not normalized to UTC: %q", got.CreatedAt)
	}
}

func TestCampaignLeadStoreAssignLeads(t *testing.T) {
	repo := &leadRepoStub{}
	store := NewCampaignLeadStore(repo)
	store.now = func() time.Time { return time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC) }
	businessID, moderatorID := uuid.New(), uuid.New()
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	n, err := store.AssignLeads(context.Background(), businessID, moderatorID, day, []contacts.NewLead{
		{Phone: "01911000003", Name: "Nadia", Address: "Sylhet"},
		{Phone: "01611000004"},
	})
	if err != nil {
		t.Fatalf("AssignLeads: %v", err)
	}
	if n != 2 || len(repo.created) != 2 {
		t.Fatalf("expected 2 created leads, got %d", n)
	}
	second := repo.created[1]
	if second.CustomerName != contacts.ProspectName || second.Status != "pending" {
		t.Fatalf("unexpected defaults %+v", second)
	}
	if *second.ModeratorID != moderatorID || !second.AssignedDate.Equal(day) || second.BusinessID != businessID {
		t.Fatalf("lead not routed to the moderator: %+v", second)
	}
	if repo.created[0].ModeratorID == repo.created[1].ModeratorID {
		t.Fatal("leads must not share a moderator pointer")
	}
}

func TestCampaignLeadStoreSkipsEmptyBatches(t *testing.T) {
	repo := &leadRepoStub{}
	store := NewCampaignLeadStore(repo)

	if n, err := store.BulkUpdateLeads(context.Background(), uuid.New(), nil, uuid.New(), time.Now()); err != nil || n != 0 {
		t.Fatalf("BulkUpdateLeads on empty ids = %d, %v", n, err)
	}
	if n, err := store.AssignLeads(context.Background(), uuid.New(), uuid.New(), time.Now(), nil); err != nil || n != 0 {
		t.Fatalf("AssignLeads on empty batch = %d, %v", n, err)
	}
}

type orderListerStub []ordersrepo.Order

func (s orderListerStub) ListByBusiness(context.Context, uuid.UUID) ([]ordersrepo.Order, error) {
	return s, nil
}

func TestCampaignOrderSourceUsesGrandTotal(t *testing.T) {
	moderator := uuid.New()
	source := NewCampaignOrderSource(orderListerStub{
		{ID: uuid.New(), CustomerPhone: "01711000001", TotalAmount: 1000, GrandTotal: 1060, ModeratorID: &moderator, CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), CustomerPhone: "01811000002", GrandTotal: 500, CreatedAt: time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)},
	})

	orders, err := source.ListOrders(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if orders[0].TotalAmount != 1060 || orders[0].ModeratorID != moderator {
		t.Fatalf("unexpected order %+v", orders[0])
	}
	if orders[1].ModeratorID != uuid.Nil {
		t.Fatalf("unassigned order should carry a nil moderator, got %v", orders[1].ModeratorID)
	}
	if orders[0].CreatedAt != "2024-01-15T10:00:00Z" {
		t.Fatalf("unexpected created at %q", orders[0].CreatedAt)
	}
}

type enqueuerStub struct {
	payloads []scheduler.CampaignDeployPayload
}

func (s *enqueuerStub) EnqueueCampaignDeploy(_ context.Context, payload scheduler.CampaignDeployPayload) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

func TestDeployQueueRoundTripsThroughPayload(t *testing.T) {
	enqueuer := &enqueuerStub{}
	job := campaignports.DeployJob{
		BusinessID:   uuid.New(),
		ModeratorID:  uuid.New(),
		AssignedByID: uuid.New(),
		AssignedDate: "2024-03-10",
		Phones:       []string{"01711000001"},
	}

	if err := NewCampaignDeployQueue(enqueuer).EnqueueDeploy(context.Background(), job); err != nil {
		t.Fatalf("EnqueueDeploy: %v", err)
	}

	back, err := deployJobFromPayload(enqueuer.payloads[0])
	if err != nil {
		t.Fatalf("deployJobFromPayload: %v", err)
	}
	if back.BusinessID != job.BusinessID || back.ModeratorID != job.ModeratorID || back.AssignedByID != job.AssignedByID {
		t.Fatalf("ids changed: %+v", back)
	}
	if back.AssignedDate != job.AssignedDate || len(back.Phones) != 1 {
		t.Fatalf("payload changed: %+v", back)
	}
}

func TestDeployPayloadWithBadIDFailsValidation(t *testing.T) {
	_, err := deployJobFromPayload(scheduler.CampaignDeployPayload{BusinessID: "nope"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type objectStoreStub struct {
	folder  string
	deleted []string
}

func (s *objectStoreStub) UploadFile(_ context.Context, bucket, folder, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	s.folder = folder
	return bucket + "/" + folder + "/" + fileName, nil
}

func (s *objectStoreStub) GenerateDownloadURL(_ context.Context, _, fileKey string, ttl time.Duration) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.test/" + fileKey, FileKey: fileKey, ExpiresAt: time.Unix(0, 0).Add(ttl)}, nil
}

func (s *objectStoreStub) DeleteObject(_ context.Context, _, fileKey string) error {
	s.deleted = append(s.deleted, fileKey)
	return nil
}

func (s *objectStoreStub) EnsureBucketExists(context.Context, string) error {
	return nil
}

func TestExportStoreKeepsWorklistsPerBusiness(t *testing.T) {
	objects := &objectStoreStub{}
	store := NewExportStore(objects, "exports", time.Hour)
	businessID := uuid.New()

	key, err := store.Save(context.Background(), businessID, "worklist.xlsx", "text/csv", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if objects.folder != businessID.String() {
		t.Fatalf("folder = %q, want business id", objects.folder)
	}

	url, expiresAt, err := store.DownloadURL(context.Background(), key)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if url != "https://minio.test/"+key || !expiresAt.Equal(time.Unix(0, 0).Add(time.Hour)) {
		t.Fatalf("unexpected link %q expiring %v", url, expiresAt)
	}

	if err := store.Discard(context.Background(), key); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != key {
		t.Fatalf("deleted = %v", objects.deleted)
	}
}
