package main

import (
	"context"
	"log"

	"github.com/example/shopbackend/internal/config"
	"github.com/example/shopbackend/internal/datamodels/product"
	"github.com/example/shopbackend/internal/repository/mysql"
)

// seed 初始化一批演示商品，方便本地快速跑起来
func main() {
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		panic(err)
	}

	db := mysql.Init(&cfg.MySQL)
	repo := mysql.NewProductRepository(db)
	ctx := context.Background()

	seeds := []*product.Product{
		{Name: "经典白T恤", Price: 4900, Stock: 100},
		{Name: "黑色牛仔裤", Price: 19900, Stock: 50},
		{Name: "帆布鞋", Price: 25900, Stock: 30},
		{Name: "棒球帽", Price: 8900, Stock: 80},
		{Name: "皮质钱包", Price: 15900, Stock: 0},
	}

	for _, p := range seeds {
		if err := repo.Create(ctx, p); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
		log.Printf("seeded product id=%d name=%s price=%d stock=%d", p.ID, p.Name, p.Price, p.Stock)
	}

	log.Println("seed done")
}
