// Package loadtest 并发压测执行器，供 stress_tool 使用
package loadtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RequestFunc 单次请求，第 i 次调用
type RequestFunc func(ctx context.Context, i int) error

// Runner 以固定并发执行固定次数的请求
type Runner struct {
	name        string
	concurrency int
	total       int
	limiter     *rate.Limiter
}

// NewRunner 创建执行器，qps <= 0 时不限速
func NewRunner(name string, concurrency, total int, qps float64) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	r := &Runner{name: name, concurrency: concurrency, total: total}
	if qps > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(qps), concurrency)
	}
	return r
}

type sample struct {
	d   time.Duration
	err error
}

// Run 执行全部请求并汇总结果
func (r *Runner) Run(ctx context.Context, fn RequestFunc) *Result {
	jobs := make(chan int, r.concurrency*2)
	samples := make([]sample, r.total)

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < r.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if r.limiter != nil {
					if err := r.limiter.Wait(ctx); err != nil {
						samples[i] = sample{err: err}
						continue
					}
				}
				begin := time.Now()
				err := fn(ctx, i)
				samples[i] = sample{d: time.Since(begin), err: err}
			}
		}()
	}

	for i := 0; i < r.total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return r.summarize(samples, time.Since(start))
}

func (r *Runner) summarize(samples []sample, elapsed time.Duration) *Result {
	res := &Result{
		Name:          r.name,
		Concurrency:   r.concurrency,
		Elapsed:       elapsed,
		TotalRequests: len(samples),
	}

	times := make([]time.Duration, 0, len(samples))
	var sum time.Duration
	for _, s := range samples {
		if s.err != nil {
			res.FailedRequests++
			if res.FirstError == nil {
				res.FirstError = s.err
			}
			continue
		}
		times = append(times, s.d)
		sum += s.d
	}
	res.SuccessRequests = len(times)
	if elapsed > 0 {
		res.QPS = float64(len(samples)) / elapsed.Seconds()
	}
	if len(times) == 0 {
		return res
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	res.Average = sum / time.Duration(len(times))
	res.Min = times[0]
	res.Max = times[len(times)-1]
	res.P50 = percentile(times, 0.5)
	res.P95 = percentile(times, 0.95)
	res.P99 = percentile(times, 0.99)
	return res
}

// percentile times 需已排序
func percentile(times []time.Duration, p float64) time.Duration {
	if len(times) == 0 {
		return 0
	}
	index := int(float64(len(times)) * p)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// Result 压测结果
type Result struct {
	Name            string        `json:"name"`
	Concurrency     int           `json:"concurrency"`
	Elapsed         time.Duration `json:"elapsed"`
	TotalRequests   int           `json:"total_requests"`
	SuccessRequests int           `json:"success_requests"`
	FailedRequests  int           `json:"failed_requests"`
	FirstError      error         `json:"-"`
	QPS             float64       `json:"qps"`
	Average         time.Duration `json:"average"`
	Min             time.Duration `json:"min"`
	Max             time.Duration `json:"max"`
	P50             time.Duration `json:"p50"`
	P95             time.Duration `json:"p95"`
	P99             time.Duration `json:"p99"`
}

// Print 打印结果
func (r *Result) Print() {
	fmt.Printf("📊 压测结果: %s\n", r.Name)
	fmt.Printf("================================\n")
	fmt.Printf("并发数: %d\n", r.Concurrency)
	fmt.Printf("耗时: %v\n", r.Elapsed)
	fmt.Printf("总请求数: %d\n", r.TotalRequests)
	fmt.Printf("成功请求: %d\n", r.SuccessRequests)
	fmt.Printf("失败请求: %d\n", r.FailedRequests)
	if r.FirstError != nil {
		fmt.Printf("首个错误: %v\n", r.FirstError)
	}
	fmt.Printf("QPS: %.2f\n", r.QPS)
	fmt.Printf("平均响应时间: %v\n", r.Average)
	fmt.Printf("P50: %v  P95: %v  P99: %v\n", r.P50, r.P95, r.P99)
	fmt.Printf("================================\n")
}
