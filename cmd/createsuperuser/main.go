// Команда createsuperuser интерактивно создает суперпользователя:
// запрашивает email и дважды пароль (без эха в терминале).
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/magabrotheeeer/user-auth-service/internal/config"
	authservice "github.com/magabrotheeeer/user-auth-service/internal/services/auth"
	"github.com/magabrotheeeer/user-auth-service/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		log.Fatalf("failed to connect to storage: %v", err)
	}
	defer func() {
		_ = db.DB.Close()
	}()

	authService := authservice.NewAuthService(db, nil, nil, logger)

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("failed to read email: %v", err)
	}
	email = strings.TrimSpace(email)

	password, err := readPassword("Password: ")
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	confirm, err := readPassword("Password (again): ")
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	if password != confirm {
		log.Fatal("passwords do not match")
	}
	if len(password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	user, err := authService.RegisterSuperuser(context.Background(), email, password)
	if err != nil {
		log.Fatalf("failed to create superuser: %v", err)
	}

	fmt.Printf("superuser %s created\n", user.Email)
}

// readPassword читает пароль из терминала без отображения ввода.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
