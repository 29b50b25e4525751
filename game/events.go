package game

import "time"

// Inbound/outbound event names
const (
	EventRoomCreate   = "room:create"
	EventRoomJoin     = "room:join"
	EventRoomLeave    = "room:leave"
	EventRoomSettings = "room:settings"
	EventGameStart    = "game:start"
	EventSelectWord   = "game:select_word"
	EventPlayAgain    = "game:play_again"
	EventChatMessage  = "chat:message"
	EventDrawStroke   = "draw:stroke"
	EventDrawClear    = "draw:clear"
	EventDrawUndo     = "draw:undo"
	EventPlayerKick   = "player:kick"

	EventRoomCreated    = "room:created"
	EventRoomJoined     = "room:joined"
	EventRoomSync       = "room:sync"
	EventPlayerJoined   = "player:joined"
	EventPlayerDisconn  = "player:disconnected"
	EventHostChanged    = "host:changed"
	EventGameStarting   = "game:starting"
	EventChooseWord     = "game:choose_word"
	EventWord           = "game:word"
	EventTurnStart      = "game:turn_start"
	EventTimeUpdate     = "game:time_update"
	EventHint           = "game:hint"
	EventCorrectGuess   = "game:correct_guess"
	EventTurnEnd        = "game:turn_end"
	EventRoundEnd       = "game:round_end"
	EventGameEnded      = "game:ended"
	EventPlayerKicked   = "player:kicked"
	EventCloseGuess     = "game:close_guess"
	EventServerShutdown = "server:shutdown"
	EventError          = "error"
)

// ErrorPayload is the envelope every rejected command or dispatch
// failure carries back to the connection that sent it.
type ErrorPayload struct {
	Error string `json:"error"`
	Event string `json:"event,omitempty"`
}

// Inbound payloads.

type CreateRoomPayload struct {
	PlayerName string        `json:"playerName"`
	Settings   SettingsInput `json:"settings"`
}

type SettingsInput struct {
	DrawTime   *int    `json:"drawTime,omitempty"`
	Rounds     *int    `json:"rounds,omitempty"`
	MaxPlayers *int    `json:"maxPlayers,omitempty"`
	Theme      *string `json:"theme,omitempty"`
	IsPrivate  *bool   `json:"isPrivate,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

type JoinRoomPayload struct {
	RoomCode   string  `json:"roomCode"`
	PlayerName string  `json:"playerName"`
	PlayerID   *string `json:"playerId,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

type RoomSettingsPayload struct {
	DrawTime  *int `json:"drawTime,omitempty"`
	MaxRounds *int `json:"maxRounds,omitempty"`
}

type SelectWordPayload struct {
	Word string `json:"word"`
}

type ChatMessagePayload struct {
	Message string `json:"message"`
}

type KickPayload struct {
	PlayerID string `json:"playerId"`
}

// Outbound payloads.

// RoomCreatedPayload is the reply sent only to the connection that
// issued room:create, carrying the id it must later present as
// room:join's playerId to preserve identity across a reconnect.
type RoomCreatedPayload struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// RoomJoinedPayload is the reply sent only to the connection that
// issued room:join, carrying its assigned playerId and the chat
// history it missed by not already being in the room.
type RoomJoinedPayload struct {
	Success  bool               `json:"success"`
	RoomCode string             `json:"roomCode"`
	RoomID   string             `json:"roomId"`
	PlayerID string             `json:"playerId"`
	Messages []ChatMessageEvent `json:"messages"`
}

type RoomSyncPayload struct {
	Room    RoomSyncRoom     `json:"room"`
	Players []PlayerSnapshot `json:"players"`
}

type RoomSyncRoom struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Phase          Phase  `json:"phase"`
	Round          int    `json:"round"`
	Turn           int    `json:"turn"`
	MaxRounds      int    `json:"maxRounds"`
	TimeLeft       int    `json:"timeLeft"`
	DrawTime       int    `json:"drawTime"`
	CurrentDrawer  string `json:"currentDrawer"`
	WordLength     int    `json:"wordLength"`
	MaskedWord     string `json:"maskedWord"`
	Theme          string `json:"theme"`
	IsPrivate      bool   `json:"isPrivate"`
	MaxPlayers     int    `json:"maxPlayers"`
}

type PlayerSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	IsHost      bool   `json:"isHost"`
	IsDrawing   bool   `json:"isDrawing"`
	HasGuessed  bool   `json:"hasGuessed"`
	Avatar      string `json:"avatar"`
	IsConnected bool   `json:"isConnected"`
}

type ChatMessageEvent struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	IsGuess    bool      `json:"isGuess"`
	IsClose    bool      `json:"isClose"`
}

type PlayerJoinedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type PlayerDisconnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type HostChangedPayload struct {
	NewHostID   string `json:"newHostId"`
	NewHostName string `json:"newHostName"`
}

type GameStartingPayload struct {
	Countdown int `json:"countdown"`
}

type ChooseWordPayload struct {
	Words []string `json:"words"`
}

type WordPayload struct {
	Word string `json:"word"`
}

type TurnStartPayload struct {
	DrawerID   string `json:"drawerId"`
	WordLength int    `json:"wordLength"`
	MaskedWord string `json:"maskedWord"`
	TimeLeft   int    `json:"timeLeft"`
}

type TimeUpdatePayload struct {
	TimeLeft int `json:"timeLeft"`
}

type HintPayload struct {
	MaskedWord string `json:"maskedWord"`
}

type CorrectGuessPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
}

type TurnEndPayload struct {
	Word       string `json:"word"`
	Reason     string `json:"reason"`
	AllGuessed bool   `json:"allGuessed"`
}

type RoundEndPayload struct {
	Round int `json:"round"`
}

type RankingEntry struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	UserID string `json:"userId,omitempty"`
}

type GameEndedPayload struct {
	Rankings []RankingEntry `json:"rankings"`
}

type PlayerKickedPayload struct {
	Reason string `json:"reason"`
}

type CloseGuessPayload struct {
	Message ChatMessageEvent `json:"message"`
}

type ServerShutdownPayload struct {
	Message string `json:"message"`
}
