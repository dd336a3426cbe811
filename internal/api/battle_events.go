package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/internal/websocket"
	"github.com/careersage/careersage-backend/pkg/logger"
)

// BattleEventRouter dispatches inbound websocket events to the battle
// service. It implements websocket.EventHandler; the hub calls it from
// each connection's dispatch goroutine, so one slow handler never blocks
// other users.
type BattleEventRouter struct {
	battles *service.BattleService
	hub     *websocket.Hub
}

func NewBattleEventRouter(battles *service.BattleService, hub *websocket.Hub) *BattleEventRouter {
	return &BattleEventRouter{battles: battles, hub: hub}
}

type createBattlePayload struct {
	Topic string `json:"topic"`
}

type battleIDPayload struct {
	BattleID string `json:"battle_id"`
}

type submitAnswerPayload struct {
	BattleID   string `json:"battle_id"`
	QuestionID int    `json:"question_id"`
	Answer     int    `json:"answer"`
}

type battleInvitePayload struct {
	ToUserID string `json:"to_user_id"`
	BattleID string `json:"battle_id"`
	Topic    string `json:"topic"`
}

// HandleEvent routes one client event by type.
func (r *BattleEventRouter) HandleEvent(userID, eventType string, payload json.RawMessage) {
	switch eventType {
	case "register_user":
		// Connection is already bound to the user at upgrade time.
		logger.Debug("Client registered", "userId", userID)

	case "create_battle":
		var p createBattlePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			r.sendError(userID, "Invalid create_battle payload")
			return
		}
		if err := r.battles.CreateBattle(context.Background(), userID, p.Topic); err != nil {
			logger.Error("Failed to create battle", "userId", userID, "error", err)
			r.sendError(userID, "Failed to create battle")
		}

	case "join_battle":
		var p battleIDPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.BattleID == "" {
			r.sendError(userID, "Invalid join_battle payload")
			return
		}
		if err := r.battles.JoinBattle(userID, p.BattleID); err != nil {
			switch {
			case errors.Is(err, service.ErrBattleNotJoinable):
				r.sendError(userID, "Battle not found or already started")
			case errors.Is(err, service.ErrOwnBattle):
				r.sendError(userID, "Cannot join your own battle")
			default:
				logger.Error("Failed to join battle", "userId", userID, "battleId", p.BattleID, "error", err)
				r.sendError(userID, "Failed to join battle")
			}
		}

	case "start_solo":
		var p battleIDPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.BattleID == "" {
			return
		}
		r.battles.StartSolo(userID, p.BattleID)

	case "submit_answer":
		var p submitAnswerPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.BattleID == "" {
			return
		}
		r.battles.SubmitAnswer(userID, p.BattleID, p.QuestionID, p.Answer)

	case "battle_invite":
		var p battleInvitePayload
		if err := json.Unmarshal(payload, &p); err != nil || p.ToUserID == "" {
			return
		}
		r.battles.SendBattleInvite(userID, p.ToUserID, p.BattleID, p.Topic)

	default:
		logger.Warn("Unknown websocket event", "userId", userID, "type", eventType)
	}
}

// HandleDisconnect forfeits any live battle the user was in.
func (r *BattleEventRouter) HandleDisconnect(userID string) {
	r.battles.HandleDisconnect(userID)
}

func (r *BattleEventRouter) sendError(userID, message string) {
	r.hub.SendToUser(userID, service.EventError, map[string]interface{}{
		"message": message,
	})
}
