package main

import (
	"fmt"
	"log"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/config"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/database"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/repository"
)

func main() {
	fmt.Println("Seeding cake catalog...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	cakeRepo := repository.NewCakeRepository(db)

	cakes := []models.Cake{
		{
			Name:        "ノエル・フレーズ",
			Description: "苺と生クリームのクリスマスケーキ",
			Image:       "noel-fraise.jpg",
			Sizes: []models.CakeSize{
				{Size: "4号 (12cm)", Price: 3800, Stock: 30},
				{Size: "5号 (15cm)", Price: 4800, Stock: 25},
				{Size: "6号 (18cm)", Price: 6200, Stock: 15},
			},
		},
		{
			Name:        "ノエル・ショコラ",
			Description: "濃厚チョコレートのクリスマスケーキ",
			Image:       "noel-chocolat.jpg",
			Sizes: []models.CakeSize{
				{Size: "4号 (12cm)", Price: 4000, Stock: 20},
				{Size: "5号 (15cm)", Price: 5000, Stock: 20},
			},
		},
		{
			Name:        "ブッシュ・ド・ノエル",
			Description: "定番の薪型ロールケーキ",
			Image:       "buche-de-noel.jpg",
			Sizes: []models.CakeSize{
				{Size: "18cm", Price: 4500, Stock: 18},
			},
		},
	}

	for i := range cakes {
		if existing, err := cakeRepo.GetByName(cakes[i].Name); err == nil && existing != nil {
			fmt.Printf("Cake %q already exists, skipping\n", cakes[i].Name)
			continue
		}
		if err := cakeRepo.Create(&cakes[i]); err != nil {
			log.Printf("Warning: Failed to create cake %q: %v", cakes[i].Name, err)
			continue
		}
		fmt.Printf("Created cake %q with %d sizes\n", cakes[i].Name, len(cakes[i].Sizes))
	}

	fmt.Println("Catalog seeding completed successfully!")
}
