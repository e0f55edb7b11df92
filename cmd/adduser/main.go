// adduser 在命令行中创建 ProTrack 用户
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"protrack/config"
	"protrack/database"
	"protrack/models"
	"protrack/store"
)

const minPasswordLen = 6

// openStore 按配置打开存储
type openStore func(cfg *config.Config) (store.UserStore, error)

func main() {
	open := func(cfg *config.Config) (store.UserStore, error) {
		return database.Init(cfg)
	}
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, open); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, open openStore) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "用户邮箱")
	name := fs.String("name", "", "用户名称（可选）")
	passwordFlag := fs.String("password", "", "密码（可选，省略时交互输入）")
	configFile := fs.String("c", "", "外部配置文件路径（可选）")

	if err := fs.Parse(args); err != nil {
		return err
	}

	addr := strings.ToLower(strings.TrimSpace(*email))
	if addr == "" {
		fmt.Fprintln(stdout, "用法: adduser -email <邮箱> [-name <名称>] [-password <密码>] [-c <配置文件>]")
		fs.PrintDefaults()
		return errors.New("缺少参数: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "密码: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("读取密码失败: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if len(strings.TrimSpace(password)) < minPasswordLen {
		return fmt.Errorf("密码长度不能少于 %d 位", minPasswordLen)
	}

	config.LoadEnvFile()
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return err
	}

	users, err := open(cfg)
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}

	ctx := context.Background()
	if _, err := users.GetUserByEmail(ctx, addr); err == nil {
		return fmt.Errorf("用户 %s 已存在", addr)
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("查询用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}

	user := models.User{Email: addr, Name: *name, Password: string(hash)}
	if err := users.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}

	fmt.Fprintf(stdout, "用户 %s 创建成功，ID: %d\n", user.Email, user.ID)
	return nil
}

// readPassword 终端下不回显读取，否则按行读取（管道、测试）
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
