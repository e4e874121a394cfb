package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/repository"
)

// ── Mock InviteCodeRepository ──

type mockInviteCodeRepo struct {
	codes map[string]*model.InviteCode // key: code
	seq   int
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{codes: make(map[string]*model.InviteCode)}
}

func (m *mockInviteCodeRepo) Create(_ context.Context, code *model.InviteCode) error {
	if _, ok := m.codes[code.Code]; ok {
		return repository.ErrDuplicateCode
	}
	if code.ID == "" {
		m.seq++
		code.ID = fmt.Sprintf("invite-%d", m.seq)
	}
	m.codes[code.Code] = code
	return nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	if c, ok := m.codes[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) MarkUsed(_ context.Context, id string) error {
	for _, c := range m.codes {
		if c.ID == id {
			if c.IsUsed {
				return repository.ErrCodeAlreadyUsed
			}
			c.IsUsed = true
			now := testNow()
			c.UsedAt = &now
			return nil
		}
	}
	return repository.ErrCodeAlreadyUsed
}

func (m *mockInviteCodeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.codes)), nil
}

func (m *mockInviteCodeRepo) CountUsed(_ context.Context) (int64, error) {
	var n int64
	for _, c := range m.codes {
		if c.IsUsed {
			n++
		}
	}
	return n, nil
}

func (m *mockInviteCodeRepo) List(_ context.Context) ([]model.InviteCode, error) {
	var result []model.InviteCode
	for _, c := range m.codes {
		result = append(result, *c)
	}
	return result, nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions []*model.Session
	seq      int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session) error {
	if session.ID == "" {
		m.seq++
		session.ID = fmt.Sprintf("sess-%d", m.seq)
	}
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockSessionRepo) List(_ context.Context) ([]model.Session, error) {
	var result []model.Session
	for _, s := range m.sessions {
		result = append(result, *s)
	}
	return result, nil
}

// ── Mock DiscordRequestRepository ──

type mockDiscordRequestRepo struct {
	requests map[string]*model.DiscordRequest
}

func newMockDiscordRequestRepo() *mockDiscordRequestRepo {
	return &mockDiscordRequestRepo{requests: make(map[string]*model.DiscordRequest)}
}

func (m *mockDiscordRequestRepo) GetByUserID(_ context.Context, discordUserID string) (*model.DiscordRequest, error) {
	if r, ok := m.requests[discordUserID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDiscordRequestRepo) Upsert(_ context.Context, req *model.DiscordRequest) error {
	m.requests[req.DiscordUserID] = req
	return nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	reports map[string]*model.Report
	seq     int
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*model.Report)}
}

func (m *mockReportRepo) Create(_ context.Context, report *model.Report) error {
	if report.ID == "" {
		m.seq++
		report.ID = fmt.Sprintf("report-%d", m.seq)
	}
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportRepo) List(_ context.Context) ([]model.Report, error) {
	var result []model.Report
	for _, r := range m.reports {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockReportRepo) UpdateStatus(_ context.Context, id, status string) error {
	r, ok := m.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	return nil
}

// ── Mock PersistentUserRepository ──

type mockPersistentUserRepo struct {
	users map[string]*model.PersistentUser
}

func newMockPersistentUserRepo() *mockPersistentUserRepo {
	return &mockPersistentUserRepo{users: make(map[string]*model.PersistentUser)}
}

func (m *mockPersistentUserRepo) GetByDiscordID(_ context.Context, discordUserID string) (*model.PersistentUser, error) {
	if u, ok := m.users[discordUserID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersistentUserRepo) Upsert(_ context.Context, user *model.PersistentUser) error {
	if existing, ok := m.users[user.DiscordUserID]; ok {
		existing.DiscordUsername = user.DiscordUsername
		existing.LastAccessAt = user.LastAccessAt
		return nil
	}
	m.users[user.DiscordUserID] = user
	return nil
}

func (m *mockPersistentUserRepo) List(_ context.Context) ([]model.PersistentUser, error) {
	var result []model.PersistentUser
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// newMockRepository 组装全套 mock 仓储
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		InviteCode:     newMockInviteCodeRepo(),
		Session:        newMockSessionRepo(),
		DiscordRequest: newMockDiscordRequestRepo(),
		Report:         newMockReportRepo(),
		PersistentUser: newMockPersistentUserRepo(),
	}
}
