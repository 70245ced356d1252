package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/penwyp/confit/cmd"
)

// main 为 CLI 入口，调用 cmd.Execute。
func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// 使用 124 表示超时，符合 CLI 规范
			log.Println("Timeout exceeded")
			os.Exit(124)
		}
		// 错误详情已由命令层以友好格式输出，这里仅负责退出码
		os.Exit(1)
	}
}
