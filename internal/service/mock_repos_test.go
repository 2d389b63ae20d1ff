package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/model"
	"github.com/utkandevrim/ac/internal/repository"
)

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	mu      sync.Mutex
	members map[string]*model.Member
	seq     int
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.members {
		if existing.Email == member.Email || (member.Username != "" && existing.Username == member.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	if member.ID == "" {
		m.seq++
		member.ID = fmt.Sprintf("member-%d", m.seq)
	}
	member.CreatedAt = time.Now()
	m.members[member.ID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if member, ok := m.members[id]; ok {
		return member, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByUsername(_ context.Context, username string) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members {
		if member.Username != "" && member.Username == username {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByEmail(_ context.Context, email string) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.members {
		if id != member.ID && member.Username != "" && existing.Username == member.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.members[member.ID] = member
	return nil
}

func (m *mockMemberRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.PasswordHash = hash
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.members, id)
	return nil
}

func (m *mockMemberRepo) ListByApproval(_ context.Context, approved bool) ([]model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Member
	for _, member := range m.members {
		if member.IsApproved == approved {
			out = append(out, *member)
		}
	}
	sortMembers(out)
	return out, nil
}

func (m *mockMemberRepo) Search(_ context.Context, query string) ([]model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.Member
	for _, member := range m.members {
		if !member.IsApproved {
			continue
		}
		if strings.Contains(strings.ToLower(member.Name), q) ||
			strings.Contains(strings.ToLower(member.Surname), q) ||
			strings.Contains(strings.ToLower(member.Email), q) {
			out = append(out, *member)
		}
	}
	sortMembers(out)
	return out, nil
}

func (m *mockMemberRepo) ListWithoutUsername(_ context.Context) ([]model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Member
	for _, member := range m.members {
		if member.Username == "" {
			out = append(out, *member)
		}
	}
	sortMembers(out)
	return out, nil
}

func (m *mockMemberRepo) ListIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.members))
	for id := range m.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func sortMembers(members []model.Member) {
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
}

// ── Mock DuesRepository ──

type mockDuesRepo struct {
	mu      sync.Mutex
	records map[string]*model.Dues
	seq     int
	failOn  string // CreateBatch fails when set
}

func newMockDuesRepo() *mockDuesRepo {
	return &mockDuesRepo{records: make(map[string]*model.Dues)}
}

func (m *mockDuesRepo) insert(d model.Dues) {
	m.seq++
	d.ID = fmt.Sprintf("due-%d", m.seq)
	m.records[d.ID] = &d
}

func (m *mockDuesRepo) CreateBatch(_ context.Context, records []model.Dues) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" {
		return fmt.Errorf("%s", m.failOn)
	}
	for _, d := range records {
		m.insert(d)
	}
	return nil
}

func (m *mockDuesRepo) EnsureBatch(_ context.Context, records []model.Dues) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, d := range records {
		exists := false
		for _, r := range m.records {
			if r.UserID == d.UserID && r.Month == d.Month && r.Year == d.Year {
				exists = true
				break
			}
		}
		if !exists {
			m.insert(d)
			n++
		}
	}
	return n, nil
}

func (m *mockDuesRepo) GetByID(_ context.Context, id string) (*model.Dues, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.records[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDuesRepo) ListByUser(_ context.Context, userID string) ([]model.Dues, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Dues
	for _, d := range m.records {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDuesRepo) ListByYear(_ context.Context, year int) ([]model.Dues, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Dues
	for _, d := range m.records {
		if d.Year == year {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDuesRepo) SetPaid(_ context.Context, id string, paid bool, at *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.IsPaid = paid
	d.PaymentDate = at
	return nil
}

func (m *mockDuesRepo) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.records {
		if d.UserID == userID {
			delete(m.records, id)
		}
	}
	return nil
}

// payAllExcept marks every record of userID paid except (month, year).
func (m *mockDuesRepo) payAllExcept(userID, month string, year int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, d := range m.records {
		if d.UserID != userID || (d.Month == month && d.Year == year) {
			continue
		}
		d.IsPaid = true
		d.PaymentDate = &now
	}
}

// ── Mock CampaignRepository ──

type mockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	seq       int
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{campaigns: make(map[string]*model.Campaign)}
}

func (m *mockCampaignRepo) Create(_ context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		m.seq++
		c.ID = fmt.Sprintf("campaign-%d", m.seq)
	}
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCampaignRepo) GetActive(ctx context.Context, id string) (*model.Campaign, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCampaignRepo) ListActive(_ context.Context) ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Campaign
	for _, c := range m.campaigns {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCampaignRepo) Update(_ context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *mockCampaignRepo) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = false
	return nil
}

// ── Mock QRTokenRepository ──

type mockQRTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.QRToken // key: id
	seq    int
}

func newMockQRTokenRepo() *mockQRTokenRepo {
	return &mockQRTokenRepo{tokens: make(map[string]*model.QRToken)}
}

func (m *mockQRTokenRepo) Create(_ context.Context, t *model.QRToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tokens {
		if existing.Token == t.Token {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.ID == "" {
		m.seq++
		t.ID = fmt.Sprintf("token-%d", m.seq)
	}
	cp := *t
	m.tokens[t.ID] = &cp
	return nil
}

func (m *mockQRTokenRepo) GetByToken(_ context.Context, token string) (*model.QRToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.Token == token {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// Consume mirrors UPDATE ... WHERE id = ? AND is_used = false AND expires_at >= ?.
func (m *mockQRTokenRepo) Consume(_ context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.IsUsed || at.After(t.ExpiresAt) {
		return false, nil
	}
	t.IsUsed = true
	t.UsedAt = &at
	return true, nil
}

func (m *mockQRTokenRepo) get(id string) model.QRToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.tokens[id]
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	if e.ID == "" {
		m.seq++
		e.ID = fmt.Sprintf("event-%d", m.seq)
	}
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *mockEventRepo) Update(_ context.Context, e *model.Event) error {
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) AppendPhoto(_ context.Context, id, url string) error {
	e, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Photos = append(e.Photos, url)
	return nil
}

// ── Mock LeadershipRepository ──

type mockLeadershipRepo struct {
	leaders map[string]*model.Leader
}

func newMockLeadershipRepo() *mockLeadershipRepo {
	return &mockLeadershipRepo{leaders: make(map[string]*model.Leader)}
}

func (m *mockLeadershipRepo) List(_ context.Context) ([]model.Leader, error) {
	var out []model.Leader
	for _, l := range m.leaders {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *mockLeadershipRepo) GetByID(_ context.Context, id string) (*model.Leader, error) {
	if l, ok := m.leaders[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeadershipRepo) Update(_ context.Context, l *model.Leader) error {
	cp := *l
	m.leaders[l.ID] = &cp
	return nil
}

// ── Mock ContentRepository ──

type mockContentRepo struct {
	contents map[string]*model.SiteContent
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{contents: make(map[string]*model.SiteContent)}
}

func (m *mockContentRepo) Get(_ context.Context, key string) (*model.SiteContent, error) {
	if c, ok := m.contents[key]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContentRepo) Upsert(_ context.Context, c *model.SiteContent) error {
	cp := *c
	cp.UpdatedAt = time.Now()
	m.contents[c.Key] = &cp
	return nil
}

// ── Fakes for optional collaborators ──

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (f *fakePublisher) Publish(_ context.Context, _ string, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeFileStore struct {
	saved []string
	err   error
}

func (f *fakeFileStore) Save(filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := "/uploads/" + filename
	f.saved = append(f.saved, url)
	return url, nil
}

type fakeBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: make(map[string]time.Duration)}
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

// ── Test fixture ──

type testEnv struct {
	cfg       *config.Config
	repo      *repository.Repository
	members   *mockMemberRepo
	dues      *mockDuesRepo
	campaigns *mockCampaignRepo
	tokens    *mockQRTokenRepo
	events    *mockEventRepo
	leaders   *mockLeadershipRepo
	contents  *mockContentRepo
	logger    *zap.Logger
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "https://club.example"},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-at-least-16",
			AccessTokenTTL: 24 * time.Hour,
		},
		Club: config.ClubConfig{
			Timezone:        "Europe/Istanbul",
			DuesAmount:      1000,
			IBAN:            "TR00 TEST",
			QRTokenTTL:      15 * time.Minute,
			PublicVerifyURL: "https://club.example/verify-qr/",
		},
	}
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cfg:       testConfig(),
		members:   newMockMemberRepo(),
		dues:      newMockDuesRepo(),
		campaigns: newMockCampaignRepo(),
		tokens:    newMockQRTokenRepo(),
		events:    newMockEventRepo(),
		leaders:   newMockLeadershipRepo(),
		contents:  newMockContentRepo(),
		logger:    zap.NewNop(),
	}
	env.repo = &repository.Repository{
		Member:     env.members,
		Dues:       env.dues,
		Campaign:   env.campaigns,
		QRToken:    env.tokens,
		Event:      env.events,
		Leadership: env.leaders,
		Content:    env.contents,
	}
	return env
}

// fixedClock pins "now" to a mid-October afternoon in the club timezone.
func fixedClock() time.Time {
	loc, _ := time.LoadLocation("Europe/Istanbul")
	return time.Date(2025, time.October, 15, 14, 0, 0, 0, loc)
}

var adminCaller = Caller{ID: "admin-1", IsAdmin: true}
