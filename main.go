package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"groupchat-backend/internal/database"
	"groupchat-backend/internal/handlers"
	"groupchat-backend/internal/hub"
	"groupchat-backend/internal/jwt"
	"groupchat-backend/internal/keyValue"
	"groupchat-backend/internal/models"
	"groupchat-backend/internal/snowflake"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func setupLogger(logToFile bool) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	if logToFile {
		config.OutputPaths = []string{"app.log", "stdout"}
	}
	config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func readConfigFile() (models.ConfigFile, error) {
	var cfg models.ConfigFile

	configFile, err := os.Open("config.json")
	if err != nil {
		return cfg, err
	}
	defer configFile.Close()

	bytes, err := io.ReadAll(configFile)
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(bytes, &cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupRedis(cfg *models.ConfigFile) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := readConfigFile()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(cfg.LogToFile)
	if err != nil {
		fmt.Println(err)
		return
	}

	store, err := database.Setup(&cfg, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	err = store.Bootstrap()
	if err != nil {
		sugar.Fatal(err)
	}

	var redisClient *redis.Client
	if !cfg.SelfContained {
		fmt.Println("Connecting to redis...")
		redisClient, err = setupRedis(&cfg)
		if err != nil {
			sugar.Fatal(err)
		}
	}

	keyValue.Setup(sugar, redisClient, cfg.SelfContained)

	err = snowflake.Setup(cfg.SnowflakeWorkerID)
	if err != nil {
		sugar.Fatal(err)
	}

	jwt.Setup(cfg.JwtSecret)

	chatHub := hub.NewHub(sugar, store)
	handlers.Setup(sugar, store, chatHub)

	fmt.Printf("Server is running on %s:%s\n", cfg.Address, cfg.Port)

	err = handlers.Serve(&cfg)
	if err != nil {
		sugar.Fatal(err)
	}
}
