// @title Student Insight API
// @version 1.0
// @description 学生学习行为分析仪表盘的后端服务。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey SessionToken
// @in header
// @name X-Session-Token

package main

import (
	"flag"
	"log"
	"path/filepath"

	"student_insight/internal/app"
	"student_insight/internal/config"
	"student_insight/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	watch := flag.Bool("watch", true, "监听配置文件变更并热更新 AI / 验证码配置")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Sync()

	if *watch {
		application.ConfigFile = filepath.Join(*configDir, "config.yaml")
	}

	application.Run()
}
