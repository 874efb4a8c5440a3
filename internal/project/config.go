// Package project 实现 php.toml 项目配置
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// 常量定义
const (
	ConfigFileName = "php.toml" // 配置文件名
)

// Config 项目配置
type Config struct {
	Project ProjectInfo  `toml:"project"`
	Parser  ParserConfig `toml:"parser"`
}

// ProjectInfo 项目信息
type ProjectInfo struct {
	// Name 项目名
	Name string `toml:"name"`

	// Language 诊断消息语言 (en / zh)
	Language string `toml:"language"`
}

// ParserConfig 解析特性开关
type ParserConfig struct {
	// ShortOpenTags 是否识别 <? 短标签
	ShortOpenTags bool `toml:"short_open_tags"`
}

// Load 从文件加载配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Discover 从 dir 向上查找 php.toml
//
// 找不到时返回 nil（不是错误），调用方使用默认配置。
func Discover(dir string) (*Config, error) {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Project: ProjectInfo{Language: "en"},
		Parser:  ParserConfig{ShortOpenTags: false},
	}
}
