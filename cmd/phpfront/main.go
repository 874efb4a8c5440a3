package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/segmentio/encoding/json"

	"github.com/tluyben/phpfront/internal/ast"
	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/i18n"
	"github.com/tluyben/phpfront/internal/parser"
	"github.com/tluyben/phpfront/internal/project"
	"github.com/tluyben/phpfront/internal/scanner"
	"github.com/tluyben/phpfront/internal/token"
)

var (
	showTokens = flag.Bool("tokens", false, "Show scanner tokens")
	showAST    = flag.Bool("ast", false, "Show AST as JSON")
	parseOnly  = flag.Bool("parse", false, "Parse only, report diagnostics")
	shortTags  = flag.Bool("short-tags", false, "Enable <? short open tags")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("phpfront v0.1.0 - PHP 7 front-end")
		fmt.Println()
		fmt.Println("Usage: phpfront [options] <filename.php>")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  -tokens      Show scanner tokens")
		fmt.Println("  -ast         Show AST as JSON")
		fmt.Println("  -parse       Parse only, report diagnostics")
		fmt.Println("  -short-tags  Enable <? short open tags")
		os.Exit(0)
	}

	filename := flag.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	// 项目配置（php.toml，可选）
	features := parser.Features{ShortOpenTags: *shortTags}
	if abs, err := filepath.Abs(filename); err == nil {
		if cfg, err := project.Discover(filepath.Dir(abs)); err == nil && cfg != nil {
			features.ShortOpenTags = features.ShortOpenTags || cfg.Parser.ShortOpenTags
			if cfg.Project.Language != "" {
				i18n.SetLanguageFromString(cfg.Project.Language)
			}
		}
	}

	// 词法分析
	if *showTokens {
		dumpTokens(string(source), features)
		return
	}

	// 语法分析
	collector := errors.NewCollector()
	p := parser.New(string(source), filename, features, collector)
	root := p.Parse()

	if len(collector.Diagnostics) > 0 {
		lm := errors.NewLineMap(string(source))
		f := errors.NewFormatter()
		for _, d := range collector.Diagnostics {
			fmt.Fprint(os.Stderr, f.Format(d, filename, string(source), lm))
		}
		if collector.HasErrors() {
			os.Exit(1)
		}
	}

	if *showAST {
		data, err := json.MarshalIndent(dumpNode(root), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding AST: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		fmt.Println()
		return
	}

	if *parseOnly {
		fmt.Printf("Successfully parsed %s\n", filename)
		fmt.Printf("  Statements: %d\n", len(root.Stmts))
		fmt.Printf("  Nodes: %d\n", p.Arena().Stats().Allocated)
	}
}

// dumpTokens 打印完整的 token 协议输出（含空白和注释）
func dumpTokens(source string, features parser.Features) {
	scn := scanner.NewString(source, scanner.Config{
		ShortOpenTags: features.ShortOpenTags,
		Reporter:      errors.NewCollector(),
	})

	fmt.Println("=== Tokens ===")
	for {
		t := scn.Next()
		fmt.Printf("  %s\n", t)
		if t.Kind == token.END {
			break
		}
	}
}

// dumpNode 把 AST 转成可序列化的通用结构
func dumpNode(n ast.Node) map[string]interface{} {
	out := map[string]interface{}{
		"kind": reflect.TypeOf(n).Elem().Name(),
		"span": []int{n.Span().Start, n.Span().Length},
		"text": n.String(),
	}
	children := ast.Children(n)
	if len(children) > 0 {
		kids := make([]map[string]interface{}, 0, len(children))
		for _, c := range children {
			kids = append(kids, dumpNode(c))
		}
		out["children"] = kids
	}
	return out
}
