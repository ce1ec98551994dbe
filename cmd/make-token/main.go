package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/example/shopbackend/internal/auth"
	"github.com/example/shopbackend/internal/config"
)

// make-token 生成调试用 JWT，本地调用 API 时放到 Authorization 头
func main() {
	userID := flag.Int64("user", 1, "用户 ID")
	flag.Parse()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		panic(err)
	}

	token, err := auth.GenerateToken(&cfg.JWT, *userID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
