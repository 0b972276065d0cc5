package service

import (
	"context"

	"doggtalk/internal/domain/forum/model"
	"doggtalk/internal/pkg/ledger"
	"doggtalk/pkg/database"
	"doggtalk/pkg/errcode"
	pkgModel "doggtalk/pkg/model"
)

// CreateReply 回复帖子，帖子回复数 +1 并刷新 refreshed_at
func (s *forumService) CreateReply(ctx context.Context, actor Actor, topicID uint64, content string) (*model.Reply, error) {
	user, err := s.checkActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	topic, err := s.loadTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.AppID != actor.AppID {
		return nil, errcode.New(errcode.NoPermission)
	}
	if !topic.Topped.IsActive() {
		return nil, errcode.New(errcode.TopicNotFound)
	}

	reply := &model.Reply{
		AppID:   topic.AppID,
		TopicID: topic.ID,
		UserID:  user.ID,
		Content: content,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.replies.Create(ctx, reply); err != nil {
			return database.Classify(err, errcode.ReplyNotFound)
		}
		return s.adjustCounter(ctx, "topic.reply_count", topic.ID, !s.tx.Enabled(), func() error {
			return s.topics.AdjustReplyCount(ctx, topic.ID, pkgModel.CountIncr)
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordForumAction("reply", "create")

	return s.loadReply(ctx, reply.ID)
}

// ListReplies 帖子下的回复列表
func (s *forumService) ListReplies(ctx context.Context, in ReplyListInput) ([]ReplyItem, int64, error) {
	topic, err := s.loadTopic(ctx, in.TopicID)
	if err != nil {
		return nil, 0, err
	}
	if topic.AppID != in.AppID {
		return nil, 0, errcode.New(errcode.NoPermission)
	}
	if !in.Style.Allows(topic.Topped) {
		return nil, 0, errcode.New(errcode.TopicNotFound)
	}

	replies, total, err := s.replies.GetListByTopic(ctx, topic.ID, in.Style, in.Cursor, in.Count)
	if err != nil {
		return nil, 0, database.Classify(err, errcode.ReplyNotFound)
	}

	userIDs := make([]uint64, 0, len(replies))
	ids := make([]uint64, 0, len(replies))
	for i := range replies {
		userIDs = append(userIDs, replies[i].UserID)
		ids = append(ids, replies[i].ID)
	}
	authors, liked, err := s.authorsAndLikes(ctx, ledger.KindReply, userIDs, ids, in.ViewerID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ReplyItem, 0, len(replies))
	for i := range replies {
		items = append(items, ReplyItem{
			Reply:  replies[i].ToSimple(),
			User:   simpleOf(authors, replies[i].UserID),
			Myself: myselfOf(liked, in.ViewerID, replies[i].ID),
		})
	}
	return items, total, nil
}

// UpdateReplyStatus 修改回复状态，删除时帖子回复数 -1
func (s *forumService) UpdateReplyStatus(ctx context.Context, actor Actor, replyID uint64, action model.StatusAction) (*model.Reply, error) {
	reply, err := s.loadReply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AppID != actor.AppID {
		return nil, errcode.New(errcode.NoPermission)
	}
	if reply.Topped.IsDeleted() {
		return nil, errcode.New(errcode.ReplyNotFound)
	}
	if err := s.checkStatusActor(ctx, actor, reply.UserID, action); err != nil {
		return nil, err
	}

	next, err := s.applyAction(reply.Topped, action, errcode.ReplyNotFound)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		rows, err := s.replies.UpdateTopped(ctx, reply.ID, next)
		if err != nil {
			return database.Classify(err, errcode.ReplyNotFound)
		}
		// 已被并发请求删除
		if rows == 0 {
			return errcode.New(errcode.ReplyNotFound)
		}
		if action != model.ActionDelete {
			return nil
		}
		return s.adjustCounter(ctx, "topic.reply_count", reply.TopicID, !s.tx.Enabled(), func() error {
			return s.topics.AdjustReplyCount(ctx, reply.TopicID, pkgModel.CountDecr)
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordForumAction("reply", string(action))

	reply.Topped = next
	return reply, nil
}

func (s *forumService) LikeReply(ctx context.Context, actor Actor, replyID uint64) (*LikeResult, error) {
	return s.toggleReplyLike(ctx, actor, replyID, true)
}

func (s *forumService) UnlikeReply(ctx context.Context, actor Actor, replyID uint64) (*LikeResult, error) {
	return s.toggleReplyLike(ctx, actor, replyID, false)
}

func (s *forumService) toggleReplyLike(ctx context.Context, actor Actor, replyID uint64, like bool) (*LikeResult, error) {
	reply, err := s.loadReply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AppID != actor.AppID {
		return nil, errcode.New(errcode.NoPermission)
	}
	if reply.Topped.IsDeleted() || (like && !reply.Topped.IsActive()) {
		return nil, errcode.New(errcode.ReplyNotFound)
	}
	user, err := s.checkActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	affected, op, err := s.toggleLedger(ctx, ledger.KindReply, reply.ID, user.ID, like)
	if err != nil {
		return nil, err
	}
	if affected {
		err := s.adjustCounter(ctx, "reply.like_count", reply.ID, true, func() error {
			return s.replies.AdjustLikeCount(ctx, reply.ID, op)
		})
		if err != nil {
			return nil, err
		}
	}

	reply, err = s.loadReply(ctx, reply.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Affect: affectOf(affected), LikeCount: reply.LikeCount}, nil
}

func (s *forumService) loadReply(ctx context.Context, id uint64) (*model.Reply, error) {
	reply, err := s.replies.GetByID(ctx, id)
	if err != nil {
		return nil, database.Classify(err, errcode.ReplyNotFound)
	}
	return reply, nil
}
