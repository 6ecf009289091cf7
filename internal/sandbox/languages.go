// Package sandbox 在一次性 Docker 容器中执行不可信代码。
package sandbox

import (
	"sort"
	"time"
)

// LanguageSpec 描述一种受支持语言的容器执行配置。
type LanguageSpec struct {
	// Docker 镜像
	Image string
	// 挂载进容器的源文件名
	SourceFile string
	// 容器内执行命令 (源码以只读方式挂载在 /code 下)
	Command []string
	// 单次执行的墙钟时间上限
	Timeout time.Duration
	// 内存上限 (docker --memory)
	Memory string
	// 内存+交换上限 (docker --memory-swap)
	MemorySwap string
	// CPU 配额 (docker --cpus)
	CPUs string
}

// languages 是受支持语言的注册表。
// 编译型语言把产物写到 /tmp：/code 是只读挂载。
var languages = map[string]LanguageSpec{
	"python": {
		Image:      "python:3.9-slim",
		SourceFile: "main.py",
		Command:    []string{"python", "/code/main.py"},
		Timeout:    30 * time.Second,
		Memory:     "100m",
		MemorySwap: "200m",
		CPUs:       "0.25",
	},
	"javascript": {
		Image:      "node:14-alpine",
		SourceFile: "main.js",
		Command:    []string{"node", "/code/main.js"},
		Timeout:    30 * time.Second,
		Memory:     "100m",
		MemorySwap: "200m",
		CPUs:       "0.25",
	},
	"java": {
		Image:      "openjdk:11-slim",
		SourceFile: "Main.java",
		Command:    []string{"sh", "-c", "javac -d /tmp /code/Main.java && java -cp /tmp Main"},
		Timeout:    30 * time.Second,
		Memory:     "100m",
		MemorySwap: "200m",
		CPUs:       "0.25",
	},
	"cpp": {
		Image:      "gcc:latest",
		SourceFile: "main.cpp",
		Command:    []string{"sh", "-c", "g++ /code/main.cpp -o /tmp/a.out && /tmp/a.out"},
		Timeout:    30 * time.Second,
		Memory:     "100m",
		MemorySwap: "200m",
		CPUs:       "0.25",
	},
}

// LookupLanguage 返回语言的执行配置。
func LookupLanguage(name string) (LanguageSpec, bool) {
	spec, ok := languages[name]
	return spec, ok
}

// SupportedLanguages 返回受支持语言名称的有序列表，用于错误提示。
func SupportedLanguages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
