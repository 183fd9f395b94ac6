package models

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Password []byte `json:"-"`
}

type Space struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Invite string `json:"invite"`
}

type Channel struct {
	ID      int64  `json:"id"`
	SpaceID int64  `json:"serverID"`
	Name    string `json:"name"`
	Kind    string `json:"type"`
}

type Message struct {
	ID        int64  `json:"id"`
	ChannelID int64  `json:"channelID"`
	UserID    int64  `json:"userID"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"ts"`
}

// MessageView is the shape a message takes on the wire: history responses
// and live broadcasts both carry the store-assigned id and timestamp.
type MessageView struct {
	ID       int64  `json:"id"`
	Body     string `json:"body"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Ts       int64  `json:"ts"`
}

type ConfigFile struct {
	Address           string
	Port              string
	TlsCert           string
	TlsKey            string
	Cors              bool
	PrintHttpRequests bool
	LogToFile         bool
	JwtSecret         string
	SnowflakeWorkerID int64
	SelfContained     bool
	DbFile            string
	DbUser            string
	DbPassword        string
	DbAddress         string
	DbPort            string
	DbDatabase        string
	RedisAddress      string
	RedisPassword     string
}
