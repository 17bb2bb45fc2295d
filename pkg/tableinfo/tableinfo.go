package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserNameColumn         = "name"
	UserPasswordHashColumn = "password_hash"
)

const (
	EntitiesTableName = "entities"

	EntityIDColumn        = "id"
	EntityKindColumn      = "kind"
	EntityTitleColumn     = "title"
	EntityContentColumn   = "content"
	EntityMoodColumn      = "mood"
	EntityUserIDColumn    = "user_id"
	EntityCreatedAtColumn = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn         = "id"
	CommentEntityKindColumn = "entity_kind"
	CommentEntityIDColumn   = "entity_id"
	CommentParentIDColumn   = "parent_id"
	CommentUserIDColumn     = "user_id"
	CommentContentColumn    = "content"
	CommentMoodColumn       = "mood"
	CommentCreatedAtColumn  = "created_at"
)

const (
	ReactionsTableName = "reactions"

	ReactionEntityKindColumn = "entity_kind"
	ReactionEntityIDColumn   = "entity_id"
	ReactionUserIDColumn     = "user_id"
	ReactionKindColumn       = "reaction"
)
