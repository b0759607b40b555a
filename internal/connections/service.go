// Package connections maintains the pairwise request/accept graph that
// gates messaging.
package connections

import (
	"errors"
	"fmt"

	"github.com/rvasil/pactchat/internal/apperr"
	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
)

// PeerRequest pairs a peer's profile with the current status of the request
// that links them.
type PeerRequest struct {
	User   models.User `json:"user"`
	Status string      `json:"status"`
}

type Service struct {
	store store.Store
}

func New(s store.Store) *Service {
	return &Service{store: s}
}

// Request records a pending connection request from sender to receiver. If a
// record already exists for the pair in either direction and any status, the
// call is an idempotent no-op reporting OutcomeAlreadyExists.
func (s *Service) Request(senderID, receiverID string) (Outcome, error) {
	if senderID == receiverID {
		return "", apperr.InvalidArg("cannot send a connection request to yourself")
	}
	if _, err := s.lookupUser(senderID); err != nil {
		return "", err
	}
	if _, err := s.lookupUser(receiverID); err != nil {
		return "", err
	}

	created, err := s.store.CreateConnection(senderID, receiverID)
	if err != nil {
		return "", apperr.Internal("create connection request", err)
	}
	if !created {
		return OutcomeAlreadyExists, nil
	}
	return OutcomeCreated, nil
}

// Accept transitions the pending request sender->receiver to accepted. The
// direction must match the original request exactly.
func (s *Service) Accept(senderID, receiverID string) error {
	accepted, err := s.store.AcceptConnection(senderID, receiverID)
	if err != nil {
		return apperr.Internal("accept connection request", err)
	}
	if !accepted {
		return apperr.NotFound("no pending request found")
	}
	return nil
}

// StatusBetween reports the pair's status irrespective of direction.
func (s *Service) StatusBetween(a, b string) (string, error) {
	conn, err := s.store.GetConnectionBetween(a, b)
	if err != nil {
		return "", apperr.Internal("look up connection", err)
	}
	if conn == nil {
		return models.StatusNone, nil
	}
	return conn.Status, nil
}

// ListAccepted returns the profiles of every peer with an accepted
// connection involving userID, either direction.
func (s *Service) ListAccepted(userID string) ([]models.User, error) {
	peerIDs, err := s.store.GetAcceptedPeerIDs(userID)
	if err != nil {
		return nil, apperr.Internal("list accepted peers", err)
	}
	return s.resolveUsers(peerIDs)
}

// ListOutgoing returns requests sent by userID, annotated with the receiver's
// profile and the request's current status.
func (s *Service) ListOutgoing(userID string) ([]PeerRequest, error) {
	conns, err := s.store.GetConnectionsBySender(userID)
	if err != nil {
		return nil, apperr.Internal("list outgoing requests", err)
	}
	return s.annotate(conns, func(c models.Connection) string { return c.ReceiverID })
}

// ListIncoming returns requests addressed to userID, annotated with the
// sender's profile and the request's current status.
func (s *Service) ListIncoming(userID string) ([]PeerRequest, error) {
	conns, err := s.store.GetConnectionsByReceiver(userID)
	if err != nil {
		return nil, apperr.Internal("list incoming requests", err)
	}
	return s.annotate(conns, func(c models.Connection) string { return c.SenderID })
}

func (s *Service) annotate(conns []models.Connection, peerOf func(models.Connection) string) ([]PeerRequest, error) {
	reqs := make([]PeerRequest, 0, len(conns))
	for _, conn := range conns {
		user, err := s.lookupUser(peerOf(conn))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, PeerRequest{User: *user, Status: conn.Status})
	}
	return reqs, nil
}

func (s *Service) resolveUsers(ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.lookupUser(id)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (s *Service) lookupUser(id string) (*models.User, error) {
	user, err := s.store.GetUserByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("user %s not found", id))
	}
	if err != nil {
		return nil, apperr.Internal("look up user", err)
	}
	return user, nil
}
