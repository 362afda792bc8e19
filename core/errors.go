package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - levels 错误：MISSING_OUTCOME_COLUMN, INVALID_PARAMETER,
//     INVALID_LEVELS_ARGUMENT, MISSING_LEVEL_SET_KEY
//   - frame 错误：INVALID_INPUT
//   - store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_PARAMETER"）
	Message string // 错误消息
	Module  string // 模块名称（如 "levels", "frame", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// levels 错误代码
	ErrorCodeMissingOutcomeColumn = "MISSING_OUTCOME_COLUMN"  // 打分所需的结局列缺失
	ErrorCodeInvalidParameter     = "INVALID_PARAMETER"       // n_levels / min_obs 等参数非法
	ErrorCodeNoQualifyingLevels   = "NO_QUALIFYING_LEVELS"    // 最小观测数过滤后无剩余 level（非致命）
	ErrorCodeInvalidLevelsArg     = "INVALID_LEVELS_ARGUMENT" // levels 参数类型不受支持
	ErrorCodeMissingLevelSetKey   = "MISSING_LEVEL_SET_KEY"   // 登记表缺少期望的 level set key
)

// 模块名称常量
const (
	ModuleLevels  = "levels"  // level 选择模块
	ModuleFrame   = "frame"   // 表格运算模块
	ModuleStore   = "store"   // 存储模块
	ModuleFeature = "feature" // 特征模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsMissingOutcomeColumn 检查错误是否为结局列缺失
func IsMissingOutcomeColumn(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeMissingOutcomeColumn
	}
	return false
}

// IsInvalidParameter 检查错误是否为参数非法
func IsInvalidParameter(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidParameter
	}
	return false
}

// IsInvalidLevelsArgument 检查错误是否为 levels 参数类型不受支持
func IsInvalidLevelsArgument(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidLevelsArg
	}
	return false
}

// IsMissingLevelSetKey 检查错误是否为登记表缺少期望的 key
func IsMissingLevelSetKey(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeMissingLevelSetKey
	}
	return false
}
