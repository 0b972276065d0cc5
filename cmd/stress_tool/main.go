package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"doggtalk/pkg/loadtest"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

func main() {
	app := &cli.App{
		Name:  "stress_tool",
		Usage: "DoggTalk 点赞并发压测",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:3000", Usage: "服务地址"},
			&cli.StringFlag{Name: "token", Required: true, Usage: "SDK 用户 token"},
			&cli.Uint64Flag{Name: "app", Required: true, Usage: "app_id"},
			&cli.Uint64Flag{Name: "topic", Required: true, Usage: "topic_id"},
			&cli.IntFlag{Name: "n", Value: 1000, Usage: "请求总数"},
			&cli.IntFlag{Name: "concurrency", Value: 100, Usage: "并发数"},
			&cli.Float64Flag{Name: "qps", Value: 0, Usage: "限速，0 为不限"},
			&cli.BoolFlag{Name: "cleanup", Value: true, Usage: "结束后取消点赞"},
		},
		Action: likeStorm,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// likeStorm 同一用户并发点赞同一帖子，预期只有一次生效且 like_count 只增加 1
func likeStorm(c *cli.Context) error {
	client := &forumClient{base: c.String("url"), token: c.String("token")}
	appID, topicID := c.Uint64("app"), c.Uint64("topic")
	ctx := c.Context

	before, err := client.likeCount(ctx, appID, topicID)
	if err != nil {
		return fmt.Errorf("读取初始点赞数失败: %w", err)
	}
	fmt.Printf("开始压测：%d 个请求并发点赞 topic %d (初始 like_count=%d)...\n", c.Int("n"), topicID, before)

	var affected atomic.Int64
	runner := loadtest.NewRunner("like storm", c.Int("concurrency"), c.Int("n"), c.Float64("qps"))
	res := runner.Run(ctx, func(ctx context.Context, _ int) error {
		data, err := client.post(ctx, "/sdk/topic/like", map[string]any{"app_id": appID, "topic_id": topicID})
		if err != nil {
			return err
		}
		affected.Add(data.Get("affect").Int())
		return nil
	})
	res.Print()

	after, err := client.likeCount(ctx, appID, topicID)
	if err != nil {
		return fmt.Errorf("读取最终点赞数失败: %w", err)
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("affect=1 次数: %d (预期: 1，若压测前已点赞则为 0)\n", affected.Load())
	fmt.Printf("like_count: %d -> %d\n", before, after)
	fmt.Println("--------------------------------------------------")

	if c.Bool("cleanup") {
		if _, err := client.post(ctx, "/sdk/topic/unlike", map[string]any{"app_id": appID, "topic_id": topicID}); err != nil {
			fmt.Printf("取消点赞失败: %v\n", err)
		}
	}

	delta := int64(after) - int64(before)
	if delta != affected.Load() || affected.Load() > 1 {
		return fmt.Errorf("计数不一致: affect=%d, delta=%d", affected.Load(), delta)
	}
	fmt.Println("✅ 点赞幂等性校验通过")
	return nil
}

type forumClient struct {
	base  string
	token string
}

func (fc *forumClient) likeCount(ctx context.Context, appID, topicID uint64) (uint64, error) {
	path := "/sdk/topic/detail?style=all&app_id=" + strconv.FormatUint(appID, 10) + "&topic_id=" + strconv.FormatUint(topicID, 10)
	data, err := fc.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	return data.Get("topic.like_count").Uint(), nil
}

func (fc *forumClient) post(ctx context.Context, path string, payload any) (gjson.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, err
	}
	return fc.do(ctx, http.MethodPost, path, body)
}

// do 发送请求并返回 data 字段，业务码非 0 视为失败
func (fc *forumClient) do(ctx context.Context, method, path string, body []byte) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, fc.base+path, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+fc.token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	result := gjson.ParseBytes(respBody)
	if code := result.Get("code").Int(); code != 0 {
		return gjson.Result{}, fmt.Errorf("code=%d: %s", code, result.Get("error").String())
	}
	return result.Get("data"), nil
}
