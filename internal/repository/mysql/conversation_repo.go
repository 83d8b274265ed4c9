package mysql

import (
	"context"
	"errors"
	"log/slog"

	"Clubhouse_Hub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository struct {
	DB    *gorm.DB
	clock clock
}

// GetConversationsForUser 按最近活跃倒序，附带对方资料与最后一条消息
func (r *ConversationRepository) GetConversationsForUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	list := []model.Conversation{}
	if err := r.DB.WithContext(ctx).
		Where("participant_one = ? OR participant_two = ?", userID, userID).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	otherIDs := make([]string, 0, len(list))
	for i := range list {
		otherIDs = append(otherIDs, list[i].OtherOf(userID))
	}
	var others []model.Profile
	if err := r.DB.WithContext(ctx).Where("id IN ?", otherIDs).Find(&others).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Profile, len(others))
	for i := range others {
		byID[others[i].ID] = &others[i]
	}

	for i := range list {
		list[i].OtherParticipant = byID[list[i].OtherOf(userID)]
		last, err := r.lastMessage(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].LastMessage = last
	}
	return list, nil
}

func (r *ConversationRepository) lastMessage(ctx context.Context, conversationID string) (*model.DirectMessage, error) {
	var msgs []model.DirectMessage
	err := r.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(1).
		Find(&msgs).Error
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return &msgs[0], nil
}

func (r *ConversationRepository) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	var c model.Conversation
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConversationRepository) GetMessagesByConversation(ctx context.Context, conversationID string) ([]model.DirectMessage, error) {
	list := []model.DirectMessage{}
	err := r.DB.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// AddMessage 两步写入：插入消息后刷新会话 updated_at，第二步失败只记录日志
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *model.DirectMessage) (*model.DirectMessage, error) {
	m := *msg
	m.StripJoined()
	m.ID = newID()
	m.CreatedAt = r.clock.now()
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, translateError(err)
	}

	err := r.DB.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", m.ConversationID).
		UpdateColumn("updated_at", r.clock.now()).Error
	if err != nil {
		slog.Warn("touch conversation failed", "conversation_id", m.ConversationID, "err", err)
	}
	return &m, nil
}

// GetOrCreateConversation 参与者按字典序存储；并发创建撞唯一索引时回读已存在的会话
func (r *ConversationRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	p1, p2 := model.CanonicalPair(userA, userB)
	existing, err := r.findPair(ctx, p1, p2)
	if err != nil || existing != nil {
		return existing, err
	}

	now := r.clock.now()
	conv := model.Conversation{
		ID:             newID(),
		ParticipantOne: p1,
		ParticipantTwo: p2,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.DB.WithContext(ctx).Create(&conv).Error; err != nil {
		if isDuplicate(err) {
			return r.findPair(ctx, p1, p2)
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) findPair(ctx context.Context, p1, p2 string) (*model.Conversation, error) {
	var c model.Conversation
	err := r.DB.WithContext(ctx).
		Where("participant_one = ? AND participant_two = ?", p1, p2).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
