package prediction

import (
	"errors"
	"strings"
)

var (
	// ErrInternal 校验之后的任何失败，对外只返回通用错误
	ErrInternal = errors.New("prediction internal error")
	// ErrNotLoaded 处理器或模型未注入
	ErrNotLoaded = errors.New("artifacts not loaded")
	// ErrNonFinite 推理结果不是有限数
	ErrNonFinite = errors.New("non-finite prediction")
)

// ValidationError 请求缺少期望特征
type ValidationError struct {
	// Missing 缺失的特征名，按字母序
	Missing []string
}

func (e *ValidationError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		quoted[i] = "'" + name + "'"
	}
	return "缺少必要特征: [" + strings.Join(quoted, ", ") + "]"
}

// IsValidationError 判断是否为客户端输入错误
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
