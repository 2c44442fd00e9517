package model

// SecretType — вид секрета.
type SecretType string

const (
	SecretTypeAPIKey           SecretType = "API_KEY"
	SecretTypeEnvVariable      SecretType = "ENV_VARIABLE"
	SecretTypeDatabaseURL      SecretType = "DATABASE_URL"
	SecretTypeCloudStorageKey  SecretType = "CLOUD_STORAGE_KEY"
	SecretTypeThirdPartyAPIKey SecretType = "THIRD_PARTY_API_KEY"
)

// SecretStatus — состояние жизненного цикла секрета.
type SecretStatus string

const (
	SecretStatusActive  SecretStatus = "ACTIVE"
	SecretStatusExpired SecretStatus = "EXPIRED"
	SecretStatusRevoked SecretStatus = "REVOKED"
)

// AccountStatus — состояние учётной записи (Credential).
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusDeleted   AccountStatus = "DELETED"
)

// ContainerType — вид контейнера.
type ContainerType string

const (
	ContainerTypeMixed           ContainerType = "MIXED"
	ContainerTypeSecretsOnly     ContainerType = "SECRETS_ONLY"
	ContainerTypeCredentialsOnly ContainerType = "CREDENTIALS_ONLY"
	ContainerTypeEnvVariables    ContainerType = "ENV_VARIABLES"
)

// PlatformStatus — статус модерации платформы.
type PlatformStatus string

const (
	PlatformStatusApproved PlatformStatus = "APPROVED"
	PlatformStatusPending  PlatformStatus = "PENDING"
	PlatformStatusRejected PlatformStatus = "REJECTED"
)

var (
	SecretTypes      = []SecretType{SecretTypeAPIKey, SecretTypeEnvVariable, SecretTypeDatabaseURL, SecretTypeCloudStorageKey, SecretTypeThirdPartyAPIKey}
	SecretStatuses   = []SecretStatus{SecretStatusActive, SecretStatusExpired, SecretStatusRevoked}
	AccountStatuses  = []AccountStatus{AccountStatusActive, AccountStatusSuspended, AccountStatusDeleted}
	ContainerTypes   = []ContainerType{ContainerTypeMixed, ContainerTypeSecretsOnly, ContainerTypeCredentialsOnly, ContainerTypeEnvVariables}
	PlatformStatuses = []PlatformStatus{PlatformStatusApproved, PlatformStatusPending, PlatformStatusRejected}
)
