package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAssignments = errors.New("该训练营暂无作业")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 按作业分 Sheet，每行一名被评人，列为各评分维度的均值
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportReviewResults 导出训练营评审结果为 Excel
	ExportReviewResults(ctx context.Context, trackID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportReviewResults — 导出评审结果为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet 按作业 order 命名（"1. 作业标题"）
//   - 行：被评人（按用户名排序）
//   - 列：用户名 | 仓库地址 | 收到评审数 | 各维度均值... | 总均值
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportReviewResults(ctx context.Context, trackID string) (*bytes.Buffer, string, error) {
	// 1. 查询训练营
	track, err := s.repo.Track.GetByID(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTrackNotFound
		}
		s.logger.Error("查询训练营失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询作业列表
	assignments, err := s.repo.Assignment.ListByTrack(ctx, trackID)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrExportNoAssignments
	}

	// 3. 评分维度列（来自训练营配置，按名称排序保证列序稳定）
	criteria := make([]string, 0, len(track.ReviewCriteria))
	for name := range track.ReviewCriteria {
		criteria = append(criteria, name)
	}
	sort.Strings(criteria)

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for ai, assignment := range assignments {
		sheetName := fmt.Sprintf("%d. %s", assignment.Order, truncateSheetName(assignment.Title))
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			s.logger.Error("创建 Sheet 失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if ai == 0 {
			f.SetActiveSheet(idx)
		}

		// 查询该作业的全部提交与评审
		submissions, err := s.repo.Submission.ListByAssignment(ctx, assignment.AssignmentID)
		if err != nil {
			s.logger.Error("查询提交列表失败", zap.Error(err))
			return nil, "", err
		}
		reviews, err := s.repo.Review.ListByAssignment(ctx, assignment.AssignmentID)
		if err != nil {
			s.logger.Error("查询评审列表失败", zap.Error(err))
			return nil, "", err
		}

		// 被评人 → 各维度得分累计
		type scoreAccum struct {
			count int
			sums  map[string]float64
		}
		accums := make(map[string]*scoreAccum)
		for i := range reviews {
			r := &reviews[i]
			acc, ok := accums[r.RevieweeID]
			if !ok {
				acc = &scoreAccum{sums: make(map[string]float64)}
				accums[r.RevieweeID] = acc
			}
			acc.count++
			for name, score := range r.CriteriaScores {
				acc.sums[name] += score
			}
		}

		// 批量加载提交人用户名
		userIDs := make([]string, 0, len(submissions))
		for i := range submissions {
			userIDs = append(userIDs, submissions[i].UserID)
		}
		users, err := s.repo.User.ListByIDs(ctx, userIDs)
		if err != nil {
			s.logger.Error("查询用户列表失败", zap.Error(err))
			return nil, "", err
		}
		usernames := make(map[string]string, len(users))
		for i := range users {
			usernames[users[i].UserID] = users[i].Username
		}

		// 列宽
		f.SetColWidth(sheetName, "A", "A", 18)
		f.SetColWidth(sheetName, "B", "B", 40)
		f.SetColWidth(sheetName, "C", "C", 12)
		lastCol := colName(2 + len(criteria) + 1)
		f.SetColWidth(sheetName, "D", lastCol, 14)

		// 表头
		f.SetCellValue(sheetName, cell("A", 1), "用户名")
		f.SetCellValue(sheetName, cell("B", 1), "仓库地址")
		f.SetCellValue(sheetName, cell("C", 1), "收到评审数")
		for ci, name := range criteria {
			f.SetCellValue(sheetName, cell(colName(3+ci), 1), name)
		}
		f.SetCellValue(sheetName, cell(lastCol, 1), "总均值")
		f.SetCellStyle(sheetName, cell("A", 1), cell(lastCol, 1), headerStyle)

		// 行按用户名排序
		sort.Slice(submissions, func(i, j int) bool {
			return usernames[submissions[i].UserID] < usernames[submissions[j].UserID]
		})

		// 数据行
		row := 2
		for i := range submissions {
			sub := &submissions[i]
			f.SetCellValue(sheetName, cell("A", row), usernames[sub.UserID])
			f.SetCellValue(sheetName, cell("B", row), sub.RepositoryURL)

			acc := accums[sub.UserID]
			if acc == nil {
				f.SetCellValue(sheetName, cell("C", row), 0)
				for ci := range criteria {
					f.SetCellValue(sheetName, cell(colName(3+ci), row), "-")
				}
				f.SetCellValue(sheetName, cell(lastCol, row), "-")
				row++
				continue
			}

			f.SetCellValue(sheetName, cell("C", row), acc.count)
			total := 0.0
			for ci, name := range criteria {
				avg := acc.sums[name] / float64(acc.count)
				total += avg
				f.SetCellValue(sheetName, cell(colName(3+ci), row), fmt.Sprintf("%.1f", avg))
			}
			if len(criteria) > 0 {
				f.SetCellValue(sheetName, cell(lastCol, row), fmt.Sprintf("%.1f", total/float64(len(criteria))))
			}
			row++
		}
	}

	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("评审结果_%s.xlsx", track.Title)
	return buf, filename, nil
}

// ── 辅助函数 ──

// Excel Sheet 名上限 31 字符
func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) > 25 {
		return string(runes[:25])
	}
	return name
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
