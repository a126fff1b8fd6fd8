package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/repository"
	"college-schedule/backend/pkg/cache"
	"college-schedule/backend/pkg/storage"
)

// ── Mock GroupScheduleRepository ──

type mockGroupRepo struct {
	mu      sync.Mutex
	records map[string]model.GroupSchedule
	updates int
	// afterGet вызывается после чтения записи, до возврата результата
	afterGet func()
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{records: make(map[string]model.GroupSchedule)}
}

// clone записи хранятся как в БД: изменение результата не меняет хранилище
func clone(rec model.GroupSchedule) model.GroupSchedule {
	data, _ := json.Marshal(rec)
	var out model.GroupSchedule
	_ = json.Unmarshal(data, &out)
	return out
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.GroupSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.GroupSchedule, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupName < out[j].GroupName })
	return out, nil
}

func (m *mockGroupRepo) GetByGroup(_ context.Context, groupName string) (*model.GroupSchedule, error) {
	m.mu.Lock()
	r, ok := m.records[groupName]
	hook := m.afterGet
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := clone(r)
	if hook != nil {
		hook()
	}
	return &c, nil
}

func (m *mockGroupRepo) ReplaceAll(_ context.Context, records []model.GroupSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]model.GroupSchedule, len(records))
	for _, r := range records {
		if r.ID == "" {
			r.ID = "id-" + r.GroupName
		}
		r.UpdatedAt = time.Now()
		m.records[r.GroupName] = clone(r)
	}
	return nil
}

func (m *mockGroupRepo) UpdateSchedule(_ context.Context, rec *model.GroupSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.records[rec.GroupName]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Schedule = clone(*rec).Schedule
	m.records[rec.GroupName] = stored
	m.updates++
	return nil
}

func (m *mockGroupRepo) Upsert(_ context.Context, rec *model.GroupSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.records[rec.GroupName]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = "id-" + rec.GroupName
	}
	rec.UpdatedAt = time.Now()
	m.records[rec.GroupName] = clone(*rec)
	return nil
}

func (m *mockGroupRepo) DeleteByGroup(_ context.Context, groupName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[groupName]; !ok {
		return false, nil
	}
	delete(m.records, groupName)
	return true, nil
}

// ── Mock ObjectStore ──

type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte)}
}

func (s *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (s *mockStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *mockStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

// ── Тестовое окружение ──

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Document:  "Расписание.docx",
			Shifts:    "group_shifts.json",
			Bells:     "bell_schedule.json",
			Overrides: "bell_schedule_overrides.json",
		},
		Query:  config.QueryConfig{TeacherMatch: "containment"},
		Export: config.ExportConfig{Timezone: "UTC"},
		Ingest: config.IngestConfig{LockTTL: time.Minute},
	}
}

type testEnv struct {
	cfg    *config.Config
	repo   *mockGroupRepo
	store  *mockStore
	gen    cache.Generation
	locker *Locker
	svc    *Service
}

func setupTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	env := &testEnv{
		cfg:    cfg,
		repo:   newMockGroupRepo(),
		store:  newMockStore(),
		gen:    cache.NewLocalGeneration(),
		locker: NewLocker(nil, time.Minute, zap.NewNop()),
	}
	env.svc = env.replica()
	return env
}

// replica ещё один экземпляр сервисов над теми же БД, хранилищем и версией
// кэша, со своим кэшем в памяти
func (e *testEnv) replica() *Service {
	repo := &repository.Repository{GroupSchedule: e.repo}
	return NewService(e.cfg, repo, e.store, cache.NewVersioned(cache.New(time.Minute), e.gen), e.locker, zap.NewNop())
}

// seed записи напрямую в репозиторий
func (e *testEnv) seed(records ...model.GroupSchedule) {
	_ = e.repo.ReplaceAll(context.Background(), records)
}

func intPtr(n int) *int { return &n }

func groupRecord(name string, shift *int, fill func(s *model.WeeklySchedule)) model.GroupSchedule {
	s := model.NewWeeklySchedule()
	if fill != nil {
		fill(&s)
	}
	return model.GroupSchedule{GroupName: name, Schedule: s, ShiftInfo: model.ShiftInfo{Shift: shift}}
}

// ── Тестовый DOCX ──

func docxCell(text string) string {
	return `<w:tc><w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p></w:tc>`
}

func docxRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString(docxCell(c))
	}
	b.WriteString("</w:tr>")
	return b.String()
}

// buildDOCX две группы: 101 (понедельник) и 102 (вторник)
func buildDOCX(t *testing.T) []byte {
	t.Helper()
	body := `<w:p><w:r><w:t>Расписание уроков для 101 группы</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Расписание уроков для 102 группы</w:t></w:r></w:p>` +
		`<w:tbl>` + docxRow("№", "Понедельник", "Вторник") +
		docxRow("0", "Разговоры о важном Петров П.П.", "") +
		docxRow("1", "Математика Иванов И.И.", "") + `</w:tbl>` +
		`<w:tbl>` + docxRow("№", "Понедельник", "Вторник") +
		docxRow("1", "", "Физика Иванов И.И.") + `</w:tbl>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	_, _ = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip: %v", err)
	}
	return buf.Bytes()
}

const testBellJSON = `{
	"понедельник": {"1_shift": {"0": "08:00-08:30", "1": "08:40-09:25"}, "2_shift": {"1": "13:00-13:45"}},
	"вторник-четверг": {"1_shift": {"1": "08:30-09:15"}, "2_shift": {"1": "13:10-13:55"}}
}`
