package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
	"github.com/miniplayinc/miniplay-backend/internal/repository"
)

// fakeStore is an in-memory Store. WithinTx serializes callers with a
// mutex, which models the row-lock guarantee of the real postgres store
// closely enough for the double-join race tests.
type fakeStore struct {
	mu    sync.Mutex
	repos *repository.Repositories

	users       *fakeUserRepo
	games       *fakeGameRepo
	rooms       *fakeRoomRepo
	invitations *fakeInvitationRepo
	friendships *fakeFriendshipRepo
	scores      *fakeScoreRepo
}

func newFakeStore() *fakeStore {
	users := &fakeUserRepo{users: map[uint]entity.User{}}
	games := &fakeGameRepo{games: map[uint]entity.Game{}}
	rooms := &fakeRoomRepo{rooms: map[uint]entity.GameRoom{}}
	invitations := &fakeInvitationRepo{invitations: map[uint]entity.GameInvitation{}}
	friendships := &fakeFriendshipRepo{friendships: map[uint]entity.Friendship{}, users: users}
	scores := &fakeScoreRepo{stats: map[[2]uint]entity.UserGameStat{}}

	return &fakeStore{
		repos: &repository.Repositories{
			Users:       users,
			Games:       games,
			Rooms:       rooms,
			Invitations: invitations,
			Friendships: friendships,
			Scores:      scores,
		},
		users:       users,
		games:       games,
		rooms:       rooms,
		invitations: invitations,
		friendships: friendships,
		scores:      scores,
	}
}

func (that *fakeStore) Repos() *repository.Repositories {
	return that.repos
}

func (that *fakeStore) WithinTx(_ context.Context, fn func(repos *repository.Repositories) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return fn(that.repos)
}

func (that *fakeStore) addUser(username string) *entity.User {
	user, _ := that.users.create(username)
	return user
}

func (that *fakeStore) addGame(rows, cols, connectLen int) *entity.Game {
	return that.games.create(rows, cols, connectLen)
}

func (that *fakeStore) makeFriends(userAID, userBID uint) {
	that.friendships.seq++
	id := that.friendships.seq
	that.friendships.friendships[id] = entity.Friendship{
		ID:          id,
		User1ID:     userAID,
		User2ID:     userBID,
		RequestedBy: userAID,
		Status:      entity.FriendshipStatusAccepted,
	}
}

// ---- users ----

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[uint]entity.User
}

func (that *fakeUserRepo) create(username string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	user := entity.User{ID: that.seq, Username: username, Email: username + "@example.com"}
	that.users[user.ID] = user

	return &user, nil
}

func (that *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	user.ID = that.seq
	that.users[user.ID] = *user

	return nil
}

func (that *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.users[user.ID] = *user

	return nil
}

func (that *fakeUserRepo) GetByID(_ context.Context, id uint) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	user, ok := that.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	return &user, nil
}

func (that *fakeUserRepo) GetByIDLocked(ctx context.Context, id uint) (*entity.User, error) {
	// the store mutex already serializes callers; a plain read will do
	return that.GetByID(ctx, id)
}

func (that *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, user := range that.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}

	return nil, apperror.ErrNotFound
}

func (that *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, user := range that.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}

	return nil, apperror.ErrNotFound
}

// ---- games ----

type fakeGameRepo struct {
	mu    sync.Mutex
	seq   uint
	games map[uint]entity.Game
}

func (that *fakeGameRepo) create(rows, cols, connectLen int) *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	game := entity.Game{
		ID:         that.seq,
		Name:       "Connect Four",
		Slug:       "connect-four",
		Rows:       rows,
		Cols:       cols,
		ConnectLen: connectLen,
		IsActive:   true,
	}
	that.games[game.ID] = game

	return &game
}

func (that *fakeGameRepo) Create(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	game.ID = that.seq
	that.games[game.ID] = *game

	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id uint) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	return &game, nil
}

func (that *fakeGameRepo) GetBySlug(_ context.Context, slug string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, game := range that.games {
		if game.Slug == slug {
			found := game
			return &found, nil
		}
	}

	return nil, apperror.ErrNotFound
}

func (that *fakeGameRepo) ListActive(_ context.Context) ([]entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var games []entity.Game
	for _, game := range that.games {
		if game.IsActive {
			games = append(games, game)
		}
	}

	return games, nil
}

// ---- rooms ----

type fakeRoomRepo struct {
	mu    sync.Mutex
	seq   uint
	rooms map[uint]entity.GameRoom
}

func (that *fakeRoomRepo) Create(_ context.Context, room *entity.GameRoom) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	room.ID = that.seq
	room.CreatedAt = time.Now()
	that.rooms[room.ID] = *room

	return nil
}

func (that *fakeRoomRepo) Update(_ context.Context, room *entity.GameRoom) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = *room

	return nil
}

func (that *fakeRoomRepo) GetByID(_ context.Context, id uint) (*entity.GameRoom, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	return &room, nil
}

func (that *fakeRoomRepo) GetByIDLocked(ctx context.Context, id uint) (*entity.GameRoom, error) {
	return that.GetByID(ctx, id)
}

func (that *fakeRoomRepo) FindActiveByUser(_ context.Context, userID uint) ([]entity.GameRoom, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var rooms []entity.GameRoom
	for _, room := range that.rooms {
		if room.IsActive() && room.IsParticipant(userID) {
			rooms = append(rooms, room)
		}
	}
	sortRoomsByID(rooms)

	return rooms, nil
}

func (that *fakeRoomRepo) FindWaitingOwnedBy(_ context.Context, userID, gameID uint) ([]entity.GameRoom, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var rooms []entity.GameRoom
	for _, room := range that.rooms {
		if room.Player1ID == userID && room.GameID == gameID && room.IsWaiting() && room.Player2ID == nil {
			rooms = append(rooms, room)
		}
	}
	sortRoomsByID(rooms)

	return rooms, nil
}

func (that *fakeRoomRepo) FindAvailableByGame(_ context.Context, gameID uint) ([]entity.GameRoom, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var rooms []entity.GameRoom
	for _, room := range that.rooms {
		if room.GameID == gameID && room.IsWaiting() && room.Player2ID == nil {
			rooms = append(rooms, room)
		}
	}
	sortRoomsByID(rooms)

	return rooms, nil
}

func (that *fakeRoomRepo) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

func sortRoomsByID(rooms []entity.GameRoom) {
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
}

// ---- invitations ----

type fakeInvitationRepo struct {
	mu          sync.Mutex
	seq         uint
	invitations map[uint]entity.GameInvitation
}

func (that *fakeInvitationRepo) Create(_ context.Context, invitation *entity.GameInvitation) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	invitation.ID = that.seq
	invitation.CreatedAt = time.Now()
	that.invitations[invitation.ID] = *invitation

	return nil
}

func (that *fakeInvitationRepo) Update(_ context.Context, invitation *entity.GameInvitation) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.invitations[invitation.ID] = *invitation

	return nil
}

func (that *fakeInvitationRepo) GetByID(_ context.Context, id uint) (*entity.GameInvitation, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	invitation, ok := that.invitations[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	return &invitation, nil
}

func (that *fakeInvitationRepo) GetByIDLocked(ctx context.Context, id uint) (*entity.GameInvitation, error) {
	return that.GetByID(ctx, id)
}

func (that *fakeInvitationRepo) FindPendingDuplicate(_ context.Context, inviterID, invitedUserID, gameID uint) (*entity.GameInvitation, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, invitation := range that.invitations {
		if invitation.InviterID == inviterID &&
			invitation.InvitedUserID == invitedUserID &&
			invitation.GameID == gameID &&
			invitation.IsPending() {
			found := invitation
			return &found, nil
		}
	}

	return nil, apperror.ErrNotFound
}

func (that *fakeInvitationRepo) FindPendingFor(_ context.Context, userID uint, now time.Time) ([]entity.GameInvitation, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var invitations []entity.GameInvitation
	for _, invitation := range that.invitations {
		if invitation.InvitedUserID == userID && invitation.IsPending() && !invitation.ExpiredAt(now) {
			invitations = append(invitations, invitation)
		}
	}

	return invitations, nil
}

// ---- friendships ----

type fakeFriendshipRepo struct {
	mu          sync.Mutex
	seq         uint
	friendships map[uint]entity.Friendship
	users       *fakeUserRepo
}

// withUsers mimics the preloads the real repository does on list reads.
func (that *fakeFriendshipRepo) withUsers(friendship entity.Friendship) entity.Friendship {
	that.users.mu.Lock()
	defer that.users.mu.Unlock()

	if user, ok := that.users.users[friendship.User1ID]; ok {
		loaded := user
		friendship.User1 = &loaded
	}
	if user, ok := that.users.users[friendship.User2ID]; ok {
		loaded := user
		friendship.User2 = &loaded
	}

	return friendship
}

func (that *fakeFriendshipRepo) Create(_ context.Context, friendship *entity.Friendship) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	friendship.ID = that.seq
	that.friendships[friendship.ID] = *friendship

	return nil
}

func (that *fakeFriendshipRepo) Update(_ context.Context, friendship *entity.Friendship) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.friendships[friendship.ID] = *friendship

	return nil
}

func (that *fakeFriendshipRepo) Delete(_ context.Context, id uint) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.friendships, id)

	return nil
}

func (that *fakeFriendshipRepo) GetByID(_ context.Context, id uint) (*entity.Friendship, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	friendship, ok := that.friendships[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	return &friendship, nil
}

func (that *fakeFriendshipRepo) FindBetween(_ context.Context, userAID, userBID uint) (*entity.Friendship, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, friendship := range that.friendships {
		if (friendship.User1ID == userAID && friendship.User2ID == userBID) ||
			(friendship.User1ID == userBID && friendship.User2ID == userAID) {
			found := friendship
			return &found, nil
		}
	}

	return nil, apperror.ErrNotFound
}

func (that *fakeFriendshipRepo) AreFriends(ctx context.Context, userAID, userBID uint) (bool, error) {
	friendship, err := that.FindBetween(ctx, userAID, userBID)
	if err != nil {
		return false, nil
	}

	return friendship.IsAccepted(), nil
}

func (that *fakeFriendshipRepo) ListAcceptedFor(_ context.Context, userID uint) ([]entity.Friendship, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var friendships []entity.Friendship
	for _, friendship := range that.friendships {
		if friendship.Involves(userID) && friendship.IsAccepted() {
			friendships = append(friendships, that.withUsers(friendship))
		}
	}

	return friendships, nil
}

func (that *fakeFriendshipRepo) ListPendingFor(_ context.Context, userID uint) ([]entity.Friendship, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var friendships []entity.Friendship
	for _, friendship := range that.friendships {
		if friendship.Involves(userID) && friendship.IsPending() && friendship.RequestedBy != userID {
			friendships = append(friendships, that.withUsers(friendship))
		}
	}

	return friendships, nil
}

// ---- scores ----

type fakeScoreRepo struct {
	mu     sync.Mutex
	seq    uint
	scores []entity.UserScore
	stats  map[[2]uint]entity.UserGameStat
}

func (that *fakeScoreRepo) CreateScore(_ context.Context, score *entity.UserScore) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	score.ID = that.seq
	that.scores = append(that.scores, *score)

	return nil
}

func (that *fakeScoreRepo) TopByGame(_ context.Context, gameID uint, limit int) ([]entity.UserScore, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var scores []entity.UserScore
	for _, score := range that.scores {
		if score.GameID == gameID {
			scores = append(scores, score)
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	if len(scores) > limit {
		scores = scores[:limit]
	}

	return scores, nil
}

func (that *fakeScoreRepo) BestForUser(_ context.Context, userID, gameID uint) (*entity.UserScore, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var best *entity.UserScore
	for i := range that.scores {
		score := that.scores[i]
		if score.UserID != userID || score.GameID != gameID {
			continue
		}
		if best == nil || score.Score > best.Score {
			best = &score
		}
	}

	return best, nil
}

func (that *fakeScoreRepo) GetStat(_ context.Context, userID, gameID uint) (*entity.UserGameStat, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stat, ok := that.stats[[2]uint{userID, gameID}]
	if !ok {
		return &entity.UserGameStat{UserID: userID, GameID: gameID}, nil
	}

	return &stat, nil
}

func (that *fakeScoreRepo) SaveStat(_ context.Context, stat *entity.UserGameStat) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stats[[2]uint{stat.UserID, stat.GameID}] = *stat

	return nil
}
