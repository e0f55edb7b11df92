package main

import (
	"flag"
	"log"
	"strings"

	"protrack/config"
	"protrack/database"
	"protrack/middleware"
	"protrack/router"
	"protrack/schema"
	"protrack/service"
)

// @title ProTrack API
// @version 1.0
// @description 个人消费与时间记录 API，支持消费/时间记录管理、月度预算、统计概览以及数据导入导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("ProTrack v1.0.0")
		return
	}

	config.LoadEnvFile()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	s, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	middleware.InitJWT(cfg)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("时区配置错误: %v", err)
	}

	mailer := service.NewEmailService(&cfg.Email)

	// 预算提醒：消息队列 + 邮件
	var notifiers service.MultiNotifier
	if cfg.Notify.AMQPEnabled {
		amqpNotifier, err := service.NewAMQPNotifier(cfg.Notify.AMQPURL, cfg.Notify.AMQPExchange)
		if err != nil {
			log.Fatalf("连接消息队列失败: %v", err)
		}
		defer amqpNotifier.Close()
		notifiers = append(notifiers, amqpNotifier)
	}
	if mailer.Enabled() {
		notifiers = append(notifiers, service.EmailNotifier{Mail: mailer})
	}

	opts := service.TrackerOptions{
		Location:       loc,
		WorkActivities: cfg.Tracker.WorkActivities,
	}
	if len(notifiers) > 0 {
		opts.Notifier = notifiers
	}
	tracker := service.NewTracker(s, opts)

	validator, err := schema.NewValidator()
	if err != nil {
		log.Fatalf("加载导入格式定义失败: %v", err)
	}

	r := router.SetupRouter(cfg, router.Deps{
		Store:     s,
		Tracker:   tracker,
		Mailer:    mailer,
		Validator: validator,
	})

	log.Printf("==========================================")
	log.Printf("  ProTrack 已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
