package tui

import "sync"

// Recorder 实现 dashboard.Notifier，把最近一条通知留给状态栏显示。
// 仪表盘的操作跑在 tea.Cmd 的 goroutine 里，所以需要加锁
type Recorder struct {
	mu      sync.Mutex
	message string
	isError bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = message
	r.isError = false
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = message
	r.isError = true
}

// Last 返回最近一条通知以及它是否是错误
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message, r.isError
}
