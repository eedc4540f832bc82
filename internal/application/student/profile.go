package student

import (
	"context"

	"github.com/xiebiao/tutorup/internal/domain/student"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/mysql"
)

// GetProfileUseCase 查看学生资料用例
type GetProfileUseCase struct {
	studentRepo student.Repository
}

// NewGetProfileUseCase 创建查看资料用例
func NewGetProfileUseCase(studentRepo student.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{studentRepo: studentRepo}
}

// ProfileResponse 学生资料响应DTO
type ProfileResponse struct {
	ID         uint   `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	DateJoined string `json:"date_joined"`
}

// Execute 执行查看资料
func (uc *GetProfileUseCase) Execute(ctx context.Context, studentID uint) (*ProfileResponse, error) {
	st, err := uc.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		ID:         st.ID,
		FullName:   st.FullName,
		Email:      st.Email,
		DateJoined: st.DateJoined.Format("2006-01-02"),
	}, nil
}

// ChangePasswordUseCase 修改密码用例
type ChangePasswordUseCase struct {
	studentService student.Service
}

// NewChangePasswordUseCase 创建修改密码用例
func NewChangePasswordUseCase(studentService student.Service) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{studentService: studentService}
}

// ChangePasswordRequest 修改密码请求DTO
type ChangePasswordRequest struct {
	StudentID   uint
	OldPassword string
	NewPassword string
}

// Execute 执行修改密码
func (uc *ChangePasswordUseCase) Execute(ctx context.Context, req ChangePasswordRequest) error {
	return uc.studentService.ChangePassword(ctx, req.StudentID, req.OldPassword, req.NewPassword)
}

// DeleteAccountUseCase 注销账号用例
// 设计说明:关联数据(评价/出席/预约/选课)和学生本体在同一事务内删除,
// 不留下指向已删除学生的孤儿记录
type DeleteAccountUseCase struct {
	studentRepo student.Repository
	txManager   *mysql.TxManager
}

// NewDeleteAccountUseCase 创建注销账号用例
func NewDeleteAccountUseCase(studentRepo student.Repository, txManager *mysql.TxManager) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		studentRepo: studentRepo,
		txManager:   txManager,
	}
}

// Execute 执行注销
// 删除顺序:评价 → 出席 → 预约 → 选课 → 学生本体
// 注意:已取消的学生预约占用的名额已释放,Confirmed预约直接删除会让
// 时段计数变小,这里不做状态同步——注销是管理型低频操作,
// 时段状态会在下一次预约/取消事务中重新对齐
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, studentID uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.studentRepo.DeleteRelated(txCtx, studentID); err != nil {
			return err
		}
		return uc.studentRepo.Delete(txCtx, studentID)
	})
}
