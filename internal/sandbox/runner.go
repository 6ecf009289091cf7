package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedLanguage 表示请求的语言不在注册表中。
// 此错误在任何副作用 (临时目录、容器) 之前返回。
var ErrUnsupportedLanguage = errors.New("sandbox: unsupported language")

// Result 是一次沙箱执行的结果。
// 程序自身的失败 (非零退出、超时) 不算基础设施错误：
// Run 返回 Result 而不是 error。
type Result struct {
	Success         bool   `json:"success"`
	Output          string `json:"output"`
	Error           string `json:"error"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
	TimedOut        bool   `json:"timed_out"`
}

// killGracePeriod 限定超时取消后等待 docker 进程退出的时间。
// 子进程树里有孤儿进程握住 stdout 管道时，Wait 会一直阻塞到管道关闭，
// 这个上界保证调用方不会被拖住。
const killGracePeriod = time.Second

// Runner 通过 docker CLI 在隔离容器中执行代码片段。
// 并发执行数由入场信号量限制，超出的请求排队等待。
type Runner struct {
	dockerBin string
	timeout   time.Duration // 0 表示使用语言注册表的默认时限
	sem       chan struct{}
}

// Option 配置 Runner 的可选行为。
type Option func(*Runner)

// WithTimeout 用统一的执行时限覆盖语言注册表的默认值。
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner 创建一个执行器。
// maxConcurrent 是同时运行的容器数上限，必须为正。
func NewRunner(dockerBin string, maxConcurrent int, opts ...Option) (*Runner, error) {
	if dockerBin == "" {
		dockerBin = "docker"
	}
	if maxConcurrent <= 0 {
		return nil, fmt.Errorf("sandbox: maxConcurrent must be positive, got %d", maxConcurrent)
	}
	r := &Runner{
		dockerBin: dockerBin,
		sem:       make(chan struct{}, maxConcurrent),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run 在一次性容器中执行一段代码并返回采集到的输出。
//
// 语言校验发生在任何副作用之前。
// 返回 error 仅表示基础设施故障 (docker 不可用、临时目录失败)；
// 程序错误和超时体现在 Result 里。
func (r *Runner) Run(ctx context.Context, code, language string) (*Result, error) {
	spec, ok := LookupLanguage(language)
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedLanguage, language, strings.Join(SupportedLanguages(), ", "))
	}

	// 入场控制：并发容器数达到上限时在这里排队
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-r.sem }()

	dir, err := os.MkdirTemp("", "sandbox-")
	if err != nil {
		return nil, fmt.Errorf("sandbox: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	sourcePath := filepath.Join(dir, spec.SourceFile)
	if err := os.WriteFile(sourcePath, []byte(code), 0o644); err != nil {
		return nil, fmt.Errorf("sandbox: write source file: %w", err)
	}

	containerName := "sandbox-" + uuid.NewString()
	args := []string{
		"run", "--rm",
		"--name", containerName,
		"--network", "none",
		"--memory", spec.Memory,
		"--memory-swap", spec.MemorySwap,
		"--cpus", spec.CPUs,
		"-v", dir + ":/code:ro",
		spec.Image,
	}
	args = append(args, spec.Command...)

	timeout := spec.Timeout
	if r.timeout > 0 {
		timeout = r.timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.dockerBin, args...)
	cmd.WaitDelay = killGracePeriod
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logCtx := logrus.WithFields(logrus.Fields{
		"component": "sandbox",
		"language":  language,
		"container": containerName,
	})
	logCtx.Info("Starting sandboxed execution")

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if runCtx.Err() == context.DeadlineExceeded {
		// CommandContext 杀掉的是 docker 客户端进程，容器可能还在跑：
		// 显式 kill，保证不留下孤儿容器
		r.killContainer(containerName)
		logCtx.WithField("elapsed_ms", elapsed).Warn("Sandboxed execution timed out")
		return &Result{
			Success:         false,
			Output:          stdout.String(),
			Error:           fmt.Sprintf("Execution timed out after %s", timeout),
			ExecutionTimeMs: elapsed,
			TimedOut:        true,
		}, nil
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// 程序运行了但失败 (非零退出、OOM kill 等)
			logCtx.WithFields(logrus.Fields{
				"exit_code":  exitErr.ExitCode(),
				"elapsed_ms": elapsed,
			}).Info("Sandboxed program exited with error")
			return &Result{
				Success:         false,
				Output:          stdout.String(),
				Error:           stderr.String(),
				ExecutionTimeMs: elapsed,
			}, nil
		}
		// docker 本身起不来：基础设施错误
		logCtx.WithError(runErr).Error("Failed to run docker")
		return nil, fmt.Errorf("sandbox: docker run: %w", runErr)
	}

	logCtx.WithField("elapsed_ms", elapsed).Info("Sandboxed execution completed")
	return &Result{
		Success:         true,
		Output:          stdout.String(),
		Error:           stderr.String(),
		ExecutionTimeMs: elapsed,
	}, nil
}

// killContainer 尽力终止一个可能仍在运行的容器。
func (r *Runner) killContainer(name string) {
	killCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if out, err := exec.CommandContext(killCtx, r.dockerBin, "kill", name).CombinedOutput(); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"component": "sandbox",
			"container": name,
			"output":    strings.TrimSpace(string(out)),
		}).Warn("Failed to kill timed-out container (it may have already exited)")
	}
}
