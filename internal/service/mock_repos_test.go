package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/model"
	"github.com/DanilPOW/MonthProject/internal/repository"
)

// ── 测试用 Repository 装配 ──

type testMocks struct {
	users       *mockUserRepo
	tracks      *mockTrackRepo
	enrollments *mockEnrollmentRepo
	assignments *mockAssignmentRepo
	submissions *mockSubmissionRepo
	reviews     *mockReviewRepo
	diaries     *mockDiaryRepo
}

// newTestRepo 装配全 mock 的 Repository；
// db 为空时 BeginTx 返回 nil 事务，服务层按无事务路径执行
func newTestRepo() (*repository.Repository, *testMocks) {
	m := &testMocks{
		users:       newMockUserRepo(),
		tracks:      newMockTrackRepo(),
		enrollments: newMockEnrollmentRepo(),
		assignments: newMockAssignmentRepo(),
	}
	m.submissions = newMockSubmissionRepo(m.assignments)
	m.reviews = newMockReviewRepo(m.submissions)
	m.diaries = newMockDiaryRepo(m.users)

	repo := &repository.Repository{
		User:       m.users,
		Track:      m.tracks,
		Enrollment: m.enrollments,
		Assignment: m.assignments,
		Submission: m.submissions,
		Review:     m.reviews,
		Diary:      m.diaries,
	}
	return repo, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	user.CreatedAt = time.Now().UTC()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock TrackRepository ──

type mockTrackRepo struct {
	tracks map[string]*model.Track
}

func newMockTrackRepo() *mockTrackRepo {
	return &mockTrackRepo{tracks: make(map[string]*model.Track)}
}

func (m *mockTrackRepo) Create(_ context.Context, track *model.Track) error {
	if track.TrackID == "" {
		track.TrackID = fmt.Sprintf("track-%d", len(m.tracks)+1)
	}
	track.CreatedAt = time.Now().UTC()
	m.tracks[track.TrackID] = track
	return nil
}

func (m *mockTrackRepo) GetByID(_ context.Context, id string) (*model.Track, error) {
	if t, ok := m.tracks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrackRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Track, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTrackRepo) List(_ context.Context, offset, limit int) ([]model.Track, error) {
	var result []model.Track
	for _, t := range m.tracks {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TrackID < result[j].TrackID })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockTrackRepo) ListByIDs(_ context.Context, ids []string) ([]model.Track, error) {
	var result []model.Track
	for _, id := range ids {
		if t, ok := m.tracks[id]; ok {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTrackRepo) ListByStatus(_ context.Context, status string) ([]model.Track, error) {
	var result []model.Track
	for _, t := range m.tracks {
		if t.Status == status {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTrackRepo) Activate(_ context.Context, id string, startedAt time.Time) error {
	t, ok := m.tracks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// 与 SQL 的 WHERE status = 'waiting' 守卫一致
	if t.Status != model.TrackStatusWaiting {
		return nil
	}
	t.Status = model.TrackStatusActive
	t.StartedAt = &startedAt
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.TrackEnrollment // key: userID+":"+trackID
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.TrackEnrollment)}
}

func enrollKey(userID, trackID string) string { return userID + ":" + trackID }

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.TrackEnrollment) error {
	key := enrollKey(e.UserID, e.TrackID)
	if _, ok := m.enrollments[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if e.EnrollmentID == "" {
		e.EnrollmentID = fmt.Sprintf("enroll-%d", len(m.enrollments)+1)
	}
	m.enrollments[key] = e
	return nil
}

func (m *mockEnrollmentRepo) Get(_ context.Context, userID, trackID string) (*model.TrackEnrollment, error) {
	if e, ok := m.enrollments[enrollKey(userID, trackID)]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, userID, trackID string) (bool, error) {
	key := enrollKey(userID, trackID)
	if _, ok := m.enrollments[key]; !ok {
		return false, nil
	}
	delete(m.enrollments, key)
	return true, nil
}

func (m *mockEnrollmentRepo) CountByTrack(_ context.Context, trackID string) (int64, error) {
	var count int64
	for _, e := range m.enrollments {
		if e.TrackID == trackID {
			count++
		}
	}
	return count, nil
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]model.TrackEnrollment, error) {
	var result []model.TrackEnrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TrackID < result[j].TrackID })
	return result, nil
}

func (m *mockEnrollmentRepo) ListByTrack(_ context.Context, trackID string) ([]model.TrackEnrollment, error) {
	var result []model.TrackEnrollment
	for _, e := range m.enrollments {
		if e.TrackID == trackID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, assignments []model.Assignment) error {
	for i := range assignments {
		a := assignments[i]
		if a.AssignmentID == "" {
			a.AssignmentID = fmt.Sprintf("assign-%d", len(m.assignments)+1)
		}
		m.assignments[a.AssignmentID] = &a
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByTrack(_ context.Context, trackID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.TrackID == trackID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[string]*model.Submission
	assignments *mockAssignmentRepo // 供 ListUnnotified 的关联预加载
}

func newMockSubmissionRepo(assignments *mockAssignmentRepo) *mockSubmissionRepo {
	return &mockSubmissionRepo{
		submissions: make(map[string]*model.Submission),
		assignments: assignments,
	}
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	for _, s := range m.submissions {
		if s.UserID == sub.UserID && s.AssignmentID == sub.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = fmt.Sprintf("sub-%d", len(m.submissions)+1)
	}
	m.submissions[sub.SubmissionID] = sub
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByUserAndAssignment(_ context.Context, userID, assignmentID string) (*model.Submission, error) {
	for _, s := range m.submissions {
		if s.UserID == userID && s.AssignmentID == assignmentID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.Submission, error) {
	var result []model.Submission
	for _, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.Before(result[j].SubmittedAt) })
	return result, nil
}

func (m *mockSubmissionRepo) ListByUserAndAssignments(_ context.Context, userID string, assignmentIDs []string) ([]model.Submission, error) {
	wanted := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = true
	}
	var result []model.Submission
	for _, s := range m.submissions {
		if s.UserID == userID && wanted[s.AssignmentID] {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListUnnotified(_ context.Context) ([]model.Submission, error) {
	var result []model.Submission
	for _, s := range m.submissions {
		if s.DeadlineNotificationSent {
			continue
		}
		cp := *s
		if m.assignments != nil {
			if a, ok := m.assignments.assignments[s.AssignmentID]; ok {
				cp.Assignment = a
			}
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmissionID < result[j].SubmissionID })
	return result, nil
}

func (m *mockSubmissionRepo) MarkNotified(_ context.Context, id string) (bool, error) {
	s, ok := m.submissions[id]
	if !ok || s.DeadlineNotificationSent {
		return false, nil
	}
	s.DeadlineNotificationSent = true
	return true, nil
}

// ── Mock ReviewRepository ──

type mockReviewRepo struct {
	reviews     map[string]*model.CodeReview
	submissions *mockSubmissionRepo // 供按作业联表统计
}

func newMockReviewRepo(submissions *mockSubmissionRepo) *mockReviewRepo {
	return &mockReviewRepo{
		reviews:     make(map[string]*model.CodeReview),
		submissions: submissions,
	}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.CodeReview) error {
	for _, r := range m.reviews {
		if r.ReviewerID == review.ReviewerID && r.SubmissionID == review.SubmissionID {
			return gorm.ErrDuplicatedKey
		}
	}
	if review.ReviewID == "" {
		review.ReviewID = fmt.Sprintf("review-%d", len(m.reviews)+1)
	}
	m.reviews[review.ReviewID] = review
	return nil
}

func (m *mockReviewRepo) CountByReviewerAndAssignment(_ context.Context, reviewerID, assignmentID string) (int64, error) {
	var count int64
	for _, r := range m.reviews {
		if r.ReviewerID != reviewerID {
			continue
		}
		if s, ok := m.submissions.submissions[r.SubmissionID]; ok && s.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (m *mockReviewRepo) ListSubmissionIDsByReviewer(_ context.Context, reviewerID string) ([]string, error) {
	var ids []string
	for _, r := range m.reviews {
		if r.ReviewerID == reviewerID {
			ids = append(ids, r.SubmissionID)
		}
	}
	return ids, nil
}

func (m *mockReviewRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.CodeReview, error) {
	var result []model.CodeReview
	for _, r := range m.reviews {
		if s, ok := m.submissions.submissions[r.SubmissionID]; ok && s.AssignmentID == assignmentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock DiaryRepository ──

type mockDiaryRepo struct {
	entries map[string]*model.DiaryEntry
	users   *mockUserRepo // 供 ListByAssignment 的关联预加载
}

func newMockDiaryRepo(users *mockUserRepo) *mockDiaryRepo {
	return &mockDiaryRepo{
		entries: make(map[string]*model.DiaryEntry),
		users:   users,
	}
}

func (m *mockDiaryRepo) Create(_ context.Context, entry *model.DiaryEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = fmt.Sprintf("entry-%d", len(m.entries)+1)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockDiaryRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.DiaryEntry, error) {
	var result []model.DiaryEntry
	for _, e := range m.entries {
		if e.AssignmentID != assignmentID {
			continue
		}
		cp := *e
		if m.users != nil {
			if u, ok := m.users.users[e.UserID]; ok {
				cp.User = u
			}
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
