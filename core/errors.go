package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 回放中所有"有含义"的失败都用此类型，携带错误代码与所属模块
//   - "无值"不是错误：无预测 / 无排名 / 无需重建一律走可选值，不走 error
//   - 致命错误（配置缺失、构建失败、打分失败）向上传播，由调用方统一报告
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_CONFIG", "BUILD_FAILED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "replay", "dataset", "algo"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
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

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidConfig = "INVALID_CONFIG" // 运行配置无效（缺数据源/算法等）
	ErrorCodeBuildFailed   = "BUILD_FAILED"   // 外部引擎模型构建失败
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入数据无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleReplay  = "replay"  // 回放驱动
	ModuleDataset = "dataset" // 数据集/窗口视图
	ModuleAlgo    = "algo"    // 算法注册与构建
	ModuleStore   = "store"   // 检查点存储
	ModuleOutput  = "output"  // 输出
	ModuleConfig  = "config"  // 配置
)

// IsInvalidConfig 检查错误是否为 INVALID_CONFIG
func IsInvalidConfig(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidConfig
	}
	return false
}

// IsBuildFailed 检查错误是否为 BUILD_FAILED
func IsBuildFailed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeBuildFailed
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
