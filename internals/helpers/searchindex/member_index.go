// file: internals/helpers/searchindex/member_index.go
package searchindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
)

const DefaultMemberIndex = "members"

// MemberDoc: hanya field publik. NIK/email/HP/STR/SIP tidak pernah masuk index.
type MemberDoc struct {
	ID          string `json:"id"`
	Nama        string `json:"nama"`
	NPA         string `json:"npa,omitempty"`
	Cabang      string `json:"cabang,omitempty"`
	Provinsi    string `json:"provinsi,omitempty"`
	Kota        string `json:"kota,omitempty"`
	TempatTugas string `json:"tempat_tugas,omitempty"`
	Alumni      string `json:"alumni,omitempty"`
	Status      string `json:"status,omitempty"`
	FotoURL     string `json:"foto_url,omitempty"`
}

type MemberIndex interface {
	Enabled() bool
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, docs []MemberDoc) error
	Delete(ctx context.Context, ids ...string) error
	Clear(ctx context.Context) error
	Suggest(ctx context.Context, query string, limit int, excludeStatuses []string) ([]MemberDoc, error)
}

/* ===============================
   Meilisearch
=================================*/

type MeiliMemberIndex struct {
	client meilisearch.ServiceManager
	uid    string
	log    *zap.Logger
}

func NewMeiliMemberIndex(url, apiKey, uid string, log *zap.Logger) *MeiliMemberIndex {
	if uid == "" {
		uid = DefaultMemberIndex
	}
	return &MeiliMemberIndex{
		client: meilisearch.New(url, meilisearch.WithAPIKey(apiKey)),
		uid:    uid,
		log:    log,
	}
}

func (m *MeiliMemberIndex) Enabled() bool { return true }

func (m *MeiliMemberIndex) EnsureIndex(ctx context.Context) error {
	// CreateIndex gagal kalau index sudah ada; itu normal
	_, _ = m.client.CreateIndex(&meilisearch.IndexConfig{Uid: m.uid, PrimaryKey: "id"})

	index := m.client.Index(m.uid)
	searchable := []string{"nama", "npa", "tempat_tugas", "kota", "provinsi", "cabang", "alumni"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}
	filterable := []interface{}{"status", "cabang", "provinsi"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}
	return nil
}

func (m *MeiliMemberIndex) Upsert(ctx context.Context, docs []MemberDoc) error {
	if len(docs) == 0 {
		return nil
	}
	pk := "id"
	if _, err := m.client.Index(m.uid).AddDocuments(docs, &pk); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (m *MeiliMemberIndex) Delete(ctx context.Context, ids ...string) error {
	index := m.client.Index(m.uid)
	for _, id := range ids {
		if _, err := index.DeleteDocument(id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
	}
	return nil
}

func (m *MeiliMemberIndex) Clear(ctx context.Context) error {
	if _, err := m.client.Index(m.uid).DeleteAllDocuments(); err != nil {
		return fmt.Errorf("delete all documents: %w", err)
	}
	return nil
}

func (m *MeiliMemberIndex) Suggest(ctx context.Context, query string, limit int, excludeStatuses []string) ([]MemberDoc, error) {
	if limit <= 0 || limit > 20 {
		limit = 10
	}
	req := &meilisearch.SearchRequest{Limit: int64(limit)}
	if f := StatusExclusionFilter(excludeStatuses); f != "" {
		req.Filter = f
	}
	res, err := m.client.Index(m.uid).Search(query, req)
	if err != nil {
		return nil, err
	}
	out := []MemberDoc{}
	raw, err := sonic.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StatusExclusionFilter: `status != "A" AND status != "B"`.
func StatusExclusionFilter(statuses []string) string {
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		parts = append(parts, `status != "`+strings.ReplaceAll(s, `"`, `\"`)+`"`)
	}
	return strings.Join(parts, " AND ")
}

/* ===============================
   Noop (MEILI_URL kosong)
=================================*/

type NoopMemberIndex struct{}

func (NoopMemberIndex) Enabled() bool { return false }
func (NoopMemberIndex) EnsureIndex(context.Context) error { return nil }
func (NoopMemberIndex) Upsert(context.Context, []MemberDoc) error { return nil }
func (NoopMemberIndex) Delete(context.Context, ...string) error { return nil }
func (NoopMemberIndex) Clear(context.Context) error { return nil }
func (NoopMemberIndex) Suggest(context.Context, string, int, []string) ([]MemberDoc, error) {
	return []MemberDoc{}, nil
}

func NewFromEnv(ctx context.Context, log *zap.Logger) MemberIndex {
	url := configs.GetEnv("MEILI_URL")
	if url == "" {
		log.Info("MEILI_URL kosong, index member dinonaktifkan")
		return NoopMemberIndex{}
	}
	idx := NewMeiliMemberIndex(url, configs.GetEnv("MEILI_API_KEY"), configs.GetEnv("MEILI_MEMBER_INDEX", DefaultMemberIndex), log)
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Warn("gagal menyiapkan index meilisearch", zap.Error(err))
	}
	return idx
}
