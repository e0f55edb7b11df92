package config

// SafeErrorMessage 返回可以展示给客户端的错误信息
// release 模式下只返回 fallback，避免暴露内部错误；未加载配置时视为开发环境
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
