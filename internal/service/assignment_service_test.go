package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/model"
)

// ── 测试辅助 ──

func setupTestAssignmentService() (AssignmentService, *testMocks) {
	repo, mocks := newTestRepo()
	svc := NewAssignmentService(repo, zap.NewNop())
	return svc, mocks
}

// createActiveTrackWithAssignments 构造已激活训练营 + 按序作业，并报名指定用户
func createActiveTrackWithAssignments(mocks *testMocks, trackID string, orders []int, userIDs ...string) {
	startedAt := time.Now().UTC().Add(-time.Hour)
	mocks.tracks.tracks[trackID] = &model.Track{
		TrackID:              trackID,
		Title:                "Go 后端训练营",
		RequiredParticipants: len(userIDs),
		Status:               model.TrackStatusActive,
		StartedAt:            &startedAt,
		ReviewsPerUser:       2,
	}
	for _, order := range orders {
		id := assignmentID(trackID, order)
		mocks.assignments.assignments[id] = &model.Assignment{
			AssignmentID:  id,
			TrackID:       trackID,
			Title:         "作业",
			Order:         order,
			DeadlineHours: 72,
		}
	}
	for _, userID := range userIDs {
		key := enrollKey(userID, trackID)
		mocks.enrollments.enrollments[key] = &model.TrackEnrollment{
			EnrollmentID: "enroll-" + key,
			UserID:       userID,
			TrackID:      trackID,
		}
	}
}

func assignmentID(trackID string, order int) string {
	return trackID + "-a" + string(rune('0'+order))
}

func submitFor(mocks *testMocks, userID, aID string, at time.Time) *model.Submission {
	sub := &model.Submission{
		SubmissionID: "sub-" + userID + "-" + aID,
		UserID:       userID,
		AssignmentID: aID,
		SubmittedAt:  at,
	}
	mocks.submissions.submissions[sub.SubmissionID] = sub
	return sub
}

func reviewFor(mocks *testMocks, reviewerID, submissionID string) {
	id := "review-" + reviewerID + "-" + submissionID
	mocks.reviews.reviews[id] = &model.CodeReview{
		ReviewID:     id,
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
	}
}

// ── ListWithStatus / 阶段推进测试 ──

func TestAssignmentService_Stages_InitialSubmission(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1, 2}, "user-1")

	statuses, err := svc.ListWithStatus(context.Background(), "track-1", "user-1")
	if err != nil {
		t.Fatalf("ListWithStatus 应成功: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("期望 2 个作业，实际=%d", len(statuses))
	}
	if statuses[0].CurrentStage != dto.StageSubmission {
		t.Errorf("第一个作业应处于 submission，实际=%s", statuses[0].CurrentStage)
	}
	if !statuses[0].IsAvailable {
		t.Error("第一个作业应可用")
	}
	if statuses[1].IsAvailable {
		t.Error("第二个作业在第一个完成前不应可用")
	}
}

func TestAssignmentService_Stages_CodeReviewAfterSubmit(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1")
	submitFor(mocks, "user-1", assignmentID("track-1", 1), time.Now().UTC())

	statuses, err := svc.ListWithStatus(context.Background(), "track-1", "user-1")
	if err != nil {
		t.Fatalf("ListWithStatus 应成功: %v", err)
	}
	if statuses[0].CurrentStage != dto.StageCodeReview {
		t.Errorf("已提交且配额未完成应为 code_review，实际=%s", statuses[0].CurrentStage)
	}
	if statuses[0].CodeReviewDeadline == nil {
		t.Error("code_review 阶段应附带评审截止时间")
	}
}

func TestAssignmentService_Stages_CompletedAfterQuota(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1, 2}, "user-1", "user-2", "user-3")
	a1 := assignmentID("track-1", 1)
	submitFor(mocks, "user-1", a1, time.Now().UTC())
	s2 := submitFor(mocks, "user-2", a1, time.Now().UTC())
	s3 := submitFor(mocks, "user-3", a1, time.Now().UTC())

	// user-1 完成 2 条评审（配额 reviews_per_user=2）
	reviewFor(mocks, "user-1", s2.SubmissionID)
	reviewFor(mocks, "user-1", s3.SubmissionID)

	statuses, err := svc.ListWithStatus(context.Background(), "track-1", "user-1")
	if err != nil {
		t.Fatalf("ListWithStatus 应成功: %v", err)
	}
	if statuses[0].CurrentStage != dto.StageCompleted {
		t.Errorf("配额完成后应为 completed，实际=%s", statuses[0].CurrentStage)
	}
	// 当前作业推进到第二个
	if !statuses[1].IsAvailable {
		t.Error("第一个作业完成后，第二个作业应可用")
	}
}

// ── Current 测试 ──

func TestAssignmentService_Current_FirstIncomplete(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1, 2, 3}, "user-1")

	current, err := svc.Current(context.Background(), "track-1", "user-1")
	if err != nil {
		t.Fatalf("Current 应成功: %v", err)
	}
	if current.Order != 1 {
		t.Errorf("当前作业应为 order=1，实际=%d", current.Order)
	}
}

func TestAssignmentService_Current_AllCompleted(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1", "user-2", "user-3")
	a1 := assignmentID("track-1", 1)
	submitFor(mocks, "user-1", a1, time.Now().UTC())
	s2 := submitFor(mocks, "user-2", a1, time.Now().UTC())
	s3 := submitFor(mocks, "user-3", a1, time.Now().UTC())
	reviewFor(mocks, "user-1", s2.SubmissionID)
	reviewFor(mocks, "user-1", s3.SubmissionID)

	_, err := svc.Current(context.Background(), "track-1", "user-1")
	if !errors.Is(err, ErrNoCurrentAssignment) {
		t.Errorf("全部完成后期望 ErrNoCurrentAssignment，实际: %v", err)
	}
}

func TestAssignmentService_Current_NotEnrolled(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1")

	_, err := svc.Current(context.Background(), "track-1", "stranger")
	if !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("期望 ErrNotEnrolled，实际: %v", err)
	}
}

// ── Submit 测试 ──

func TestAssignmentService_Submit_Success(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1")

	req := &dto.SubmitRequest{RepositoryURL: "https://github.com/user-1/homework"}
	resp, err := svc.Submit(context.Background(), assignmentID("track-1", 1), "user-1", req)
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if resp.RepositoryURL != req.RepositoryURL {
		t.Errorf("仓库地址不符: %s", resp.RepositoryURL)
	}
}

func TestAssignmentService_Submit_Duplicate(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1")

	req := &dto.SubmitRequest{RepositoryURL: "https://github.com/user-1/homework"}
	if _, err := svc.Submit(context.Background(), assignmentID("track-1", 1), "user-1", req); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}
	_, err := svc.Submit(context.Background(), assignmentID("track-1", 1), "user-1", req)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("重复提交期望 ErrDuplicateSubmission，实际: %v", err)
	}
}

func TestAssignmentService_Submit_TrackNotActive(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1")
	mocks.tracks.tracks["track-1"].Status = model.TrackStatusWaiting

	req := &dto.SubmitRequest{RepositoryURL: "https://github.com/user-1/homework"}
	_, err := svc.Submit(context.Background(), assignmentID("track-1", 1), "user-1", req)
	if !errors.Is(err, ErrTrackNotActive) {
		t.Errorf("waiting 训练营提交期望 ErrTrackNotActive，实际: %v", err)
	}
}

func TestAssignmentService_Submit_NotEnrolled(t *testing.T) {
	svc, mocks := setupTestAssignmentService()
	createActiveTrackWithAssignments(mocks, "track-1", []int{1}, "user-1")

	req := &dto.SubmitRequest{RepositoryURL: "https://github.com/stranger/homework"}
	_, err := svc.Submit(context.Background(), assignmentID("track-1", 1), "stranger", req)
	if !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("期望 ErrNotEnrolled，实际: %v", err)
	}
}
