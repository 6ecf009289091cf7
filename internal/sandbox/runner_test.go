package sandbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocker 写一个替代 docker 的脚本，用于在没有 Docker 的环境下测试执行器。
func fakeDocker(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake docker script requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "docker")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestNewRunner_RejectsNonPositiveConcurrency(t *testing.T) {
	_, err := NewRunner("docker", 0)
	require.Error(t, err)

	_, err = NewRunner("docker", -3)
	require.Error(t, err)
}

func TestRunner_UnsupportedLanguage_NoSideEffects(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invoked")
	bin := fakeDocker(t, "touch "+marker+"\n")
	runner, err := NewRunner(bin, 1)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), "print('hi')", "cobol")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
	assert.Contains(t, err.Error(), "cobol")
	assert.Contains(t, err.Error(), "python", "错误信息应列出受支持的语言")
	assert.Nil(t, result)
	// 语言校验在任何副作用之前：docker 从未被调用
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_Success(t *testing.T) {
	bin := fakeDocker(t, "echo hello from sandbox\n")
	runner, err := NewRunner(bin, 1)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), "print('hi')", "python")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, "hello from sandbox\n", result.Output)
	assert.False(t, result.TimedOut)
	assert.GreaterOrEqual(t, result.ExecutionTimeMs, int64(0))
}

func TestRunner_ProgramError(t *testing.T) {
	bin := fakeDocker(t, "echo partial output\necho 'Traceback: boom' >&2\nexit 1\n")
	runner, err := NewRunner(bin, 1)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), "raise", "python")

	// 程序失败不是基础设施错误
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.False(t, result.TimedOut)
	assert.Equal(t, "partial output\n", result.Output)
	assert.Contains(t, result.Error, "Traceback: boom")
}

func TestRunner_Timeout(t *testing.T) {
	// 被杀的是 docker 客户端进程；后台的 sleep 继续握住 stdout 管道，
	// 模拟容器内进程树在 SIGKILL 后仍未释放 I/O 的情况
	script := `if [ "$1" = "kill" ]; then exit 0; fi
sleep 5 &
wait $!
`
	bin := fakeDocker(t, script)
	runner, err := NewRunner(bin, 1, WithTimeout(300*time.Millisecond))
	require.NoError(t, err)

	before, err := filepath.Glob(filepath.Join(os.TempDir(), "sandbox-*"))
	require.NoError(t, err)

	start := time.Now()
	result, err := runner.Run(context.Background(), "while True: pass", "python")
	elapsed := time.Since(start)

	require.NoError(t, err, "超时不是基础设施错误")
	require.NotNil(t, result)
	assert.True(t, result.TimedOut)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
	assert.Less(t, elapsed, 2*time.Second,
		"孤儿进程握住管道时，取消后的等待也必须有上界")

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "sandbox-*"))
	require.NoError(t, err)
	assert.Len(t, after, len(before), "超时路径不应遗留临时目录")
}

func TestRunner_DockerMissing_IsInfrastructureError(t *testing.T) {
	runner, err := NewRunner("/nonexistent/docker-binary", 1)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), "print('hi')", "python")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestRunner_ConcurrencyLimit(t *testing.T) {
	// 每次执行睡 200ms；并发上限 1 时两次执行必须串行
	bin := fakeDocker(t, "sleep 0.2\n")
	runner, err := NewRunner(bin, 1)
	require.NoError(t, err)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, runErr := runner.Run(context.Background(), "x", "python")
			assert.NoError(t, runErr)
			assert.NotNil(t, result)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond,
		"两次执行应被入场信号量串行化")
}

func TestRunner_AdmissionRespectsContextCancellation(t *testing.T) {
	bin := fakeDocker(t, "sleep 5\n")
	runner, err := NewRunner(bin, 1)
	require.NoError(t, err)

	// 占住唯一的执行槽
	go runner.Run(context.Background(), "x", "python")
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	result, err := runner.Run(ctx, "y", "python")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLookupLanguage(t *testing.T) {
	spec, ok := LookupLanguage("python")
	require.True(t, ok)
	assert.Equal(t, "python:3.9-slim", spec.Image)
	assert.Equal(t, "main.py", spec.SourceFile)
	assert.Equal(t, 30*time.Second, spec.Timeout)

	_, ok = LookupLanguage("brainfuck")
	assert.False(t, ok)
}

func TestSupportedLanguages_Sorted(t *testing.T) {
	assert.Equal(t, []string{"cpp", "java", "javascript", "python"}, SupportedLanguages())
}
