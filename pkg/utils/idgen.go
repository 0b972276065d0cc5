package utils

import (
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/speps/go-hashids/v2"
)

// GenAppKey 生成应用公开标识：hashids(随机 u16, 秒级时间戳)
func GenAppKey(salt string) (string, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 12
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return "", err
	}
	return h.EncodeInt64([]int64{int64(rand.IntN(1 << 16)), time.Now().Unix()})
}

// IDGenerator 本地用户账号生成器
type IDGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &IDGenerator{node: node}, nil
}

// GenAccount 生成本地账号
func (g *IDGenerator) GenAccount() string {
	return g.node.Generate().String()
}
