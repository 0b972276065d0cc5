package service

import (
	"context"

	"doggtalk/internal/domain/forum/model"
	"doggtalk/internal/domain/forum/repository"
	"doggtalk/internal/pkg/ledger"
	"doggtalk/pkg/database"
	"doggtalk/pkg/errcode"
	pkgModel "doggtalk/pkg/model"
)

// CreateTopic 发帖，并为作者发帖数 +1
func (s *forumService) CreateTopic(ctx context.Context, actor Actor, in TopicInput) (*model.Topic, error) {
	if _, err := s.apps.GetByID(ctx, actor.AppID); err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}
	user, err := s.checkActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	topic := &model.Topic{
		AppID:    actor.AppID,
		UserID:   user.ID,
		Category: in.Category,
		Title:    in.Title,
		Content:  in.Content,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.topics.Create(ctx, topic); err != nil {
			return database.Classify(err, errcode.TopicNotFound)
		}
		return s.adjustCounter(ctx, "user.topic_count", user.ID, !s.tx.Enabled(), func() error {
			return s.users.AdjustTopicCount(ctx, user.ID, pkgModel.CountIncr)
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordForumAction("topic", "create")

	return s.loadTopic(ctx, topic.ID)
}

// GetTopic 帖子详情，tenant 不一致返回 NoPermission，不在可见范围内返回 TopicNotFound
func (s *forumService) GetTopic(ctx context.Context, appID, topicID uint64, style model.VisibleStyle, viewerID uint64) (*TopicItem, error) {
	topic, err := s.loadTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.AppID != appID {
		return nil, errcode.New(errcode.NoPermission)
	}
	if !style.Allows(topic.Topped) {
		return nil, errcode.New(errcode.TopicNotFound)
	}

	authors, liked, err := s.authorsAndLikes(ctx, ledger.KindTopic, []uint64{topic.UserID}, []uint64{topic.ID}, viewerID)
	if err != nil {
		return nil, err
	}
	return &TopicItem{
		Topic:  topic.ToSimple(),
		User:   simpleOf(authors, topic.UserID),
		Myself: myselfOf(liked, viewerID, topic.ID),
	}, nil
}

// ListTopics 帖子列表，置顶优先
func (s *forumService) ListTopics(ctx context.Context, in TopicListInput) ([]TopicItem, int64, error) {
	if _, err := s.apps.GetByID(ctx, in.AppID); err != nil {
		return nil, 0, database.Classify(err, errcode.AppNotFound)
	}

	topics, total, err := s.topics.GetList(ctx, repository.TopicQuery{
		AppID:    in.AppID,
		Category: in.Category,
		Style:    in.Style,
		OrderBy:  in.OrderBy,
		Offset:   in.Cursor,
		Limit:    in.Count,
	})
	if err != nil {
		return nil, 0, database.Classify(err, errcode.TopicNotFound)
	}

	userIDs := make([]uint64, 0, len(topics))
	ids := make([]uint64, 0, len(topics))
	for i := range topics {
		userIDs = append(userIDs, topics[i].UserID)
		ids = append(ids, topics[i].ID)
	}
	authors, liked, err := s.authorsAndLikes(ctx, ledger.KindTopic, userIDs, ids, in.ViewerID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]TopicItem, 0, len(topics))
	for i := range topics {
		items = append(items, TopicItem{
			Topic:  topics[i].ToSimple(),
			User:   simpleOf(authors, topics[i].UserID),
			Myself: myselfOf(liked, in.ViewerID, topics[i].ID),
		})
	}
	return items, total, nil
}

// UpdateTopicStatus 修改帖子状态，删除时作者发帖数 -1
func (s *forumService) UpdateTopicStatus(ctx context.Context, actor Actor, topicID uint64, action model.StatusAction) (*model.Topic, error) {
	topic, err := s.loadTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.AppID != actor.AppID {
		return nil, errcode.New(errcode.NoPermission)
	}
	if topic.Topped.IsDeleted() {
		return nil, errcode.New(errcode.TopicNotFound)
	}
	if err := s.checkStatusActor(ctx, actor, topic.UserID, action); err != nil {
		return nil, err
	}

	next, err := s.applyAction(topic.Topped, action, errcode.TopicNotFound)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		rows, err := s.topics.UpdateTopped(ctx, topic.ID, next)
		if err != nil {
			return database.Classify(err, errcode.TopicNotFound)
		}
		// 已被并发请求删除
		if rows == 0 {
			return errcode.New(errcode.TopicNotFound)
		}
		if action != model.ActionDelete {
			return nil
		}
		return s.adjustCounter(ctx, "user.topic_count", topic.UserID, !s.tx.Enabled(), func() error {
			return s.users.AdjustTopicCount(ctx, topic.UserID, pkgModel.CountDecr)
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordForumAction("topic", string(action))

	topic.Topped = next
	return topic, nil
}

// LikeTopic 点赞，仅在账本新增时调整计数
func (s *forumService) LikeTopic(ctx context.Context, actor Actor, topicID uint64) (*LikeResult, error) {
	return s.toggleTopicLike(ctx, actor, topicID, true)
}

// UnlikeTopic 取消点赞，仅在账本确有移除时调整计数
func (s *forumService) UnlikeTopic(ctx context.Context, actor Actor, topicID uint64) (*LikeResult, error) {
	return s.toggleTopicLike(ctx, actor, topicID, false)
}

func (s *forumService) toggleTopicLike(ctx context.Context, actor Actor, topicID uint64, like bool) (*LikeResult, error) {
	topic, err := s.loadTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.AppID != actor.AppID {
		return nil, errcode.New(errcode.NoPermission)
	}
	// 点赞要求正常可见，取消只要求未删除
	if topic.Topped.IsDeleted() || (like && !topic.Topped.IsActive()) {
		return nil, errcode.New(errcode.TopicNotFound)
	}
	user, err := s.checkActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	affected, op, err := s.toggleLedger(ctx, ledger.KindTopic, topic.ID, user.ID, like)
	if err != nil {
		return nil, err
	}
	if affected {
		err := s.adjustCounter(ctx, "topic.like_count", topic.ID, true, func() error {
			return s.topics.AdjustLikeCount(ctx, topic.ID, op)
		})
		if err != nil {
			return nil, err
		}
	}

	topic, err = s.loadTopic(ctx, topic.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Affect: affectOf(affected), LikeCount: topic.LikeCount}, nil
}

// toggleLedger 写账本并返回对应的计数方向
func (s *forumService) toggleLedger(ctx context.Context, kind ledger.Kind, id, userID uint64, like bool) (bool, pkgModel.CountOp, error) {
	var (
		affected bool
		err      error
		op       = pkgModel.CountIncr
	)
	if like {
		affected, err = s.ledger.Like(ctx, kind, id, userID)
	} else {
		op = pkgModel.CountDecr
		affected, err = s.ledger.Unlike(ctx, kind, id, userID)
	}
	if err != nil {
		return false, op, errcode.Wrap(errcode.InvalidDatabase, err)
	}
	s.metrics.RecordLedgerOp(string(kind), op.String(), affected)
	return affected, op, nil
}

func (s *forumService) loadTopic(ctx context.Context, id uint64) (*model.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, database.Classify(err, errcode.TopicNotFound)
	}
	return topic, nil
}
