package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	impl "sfc/internal/service/impl"
	"sfc/internal/store"
	"sfc/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	_ = godotenv.Load()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "migrate":
		err = runMigrate(args)
	case "create-admin":
		err = runCreateAdmin(args)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  migrate        Create or update the database schema")
	fmt.Fprintln(os.Stderr, "  create-admin   Create an admin account, or promote an existing one: create-admin <email> <password>")
	os.Exit(2)
}

func openStore(dsn string) (*store.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is required (-db or DATABASE_URL)")
	}
	gdb, err := db.OpenGorm(db.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store.New(gdb), nil
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dsn := fs.String("db", os.Getenv("DATABASE_URL"), "database url")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := openStore(*dsn)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := st.AutoMigrate(ctx); err != nil {
		return err
	}
	fmt.Println("schema up to date")
	return nil
}

func runCreateAdmin(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	dsn := fs.String("db", os.Getenv("DATABASE_URL"), "database url")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	// create-admin <email> <password> is accepted as well as the flags
	if fs.NArg() == 2 {
		*email, *password = fs.Arg(0), fs.Arg(1)
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("usage: create-admin [-db url] <email> <password>")
	}
	st, err := openStore(*dsn)
	if err != nil {
		return err
	}

	// only hashing and the user store are needed here
	auth := impl.NewAuthServiceImpl(st, impl.NewPasswordServiceArgon2id(impl.DefaultArgon2Params), nil, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	user, created, err := auth.EnsureAdmin(ctx, *email, *password)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("created admin %s (%s)\n", user.Email, user.ID)
	} else {
		fmt.Printf("promoted %s (%s) to admin\n", user.Email, user.ID)
	}
	return nil
}
