package scan

import (
	"neoagent/internal/core/options"
)

// globalOutputOptions 保存所有 scan 子命令共享的输出参数 (--oc/--oj)，由
// NewScanCmd 在父命令上绑定一次，各子命令的 RunE 读取后注入自己的 Options。
var globalOutputOptions options.OutputOptions
