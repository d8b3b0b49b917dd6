package models

// SOSState - состояние сессии SOS на клиенте
type SOSState string

const (
	SOSStateIdle      SOSState = "idle"
	SOSStateCounting  SOSState = "counting"
	SOSStateActive    SOSState = "active"
	SOSStateCancelled SOSState = "cancelled"
)

// NotificationStatus - отображаемый статус оповещения контакта
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationNotifying NotificationStatus = "notifying"
	NotificationNotified  NotificationStatus = "notified"
)

// Contact - экстренный контакт пользователя (принадлежит профилю)
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	IsPrimary    bool   `json:"isPrimary"`
	Verified     bool   `json:"verified"`
}

// ContactStatus - пара (контакт, статус оповещения). Контакт хранится по ссылке.
type ContactStatus struct {
	Contact *Contact           `json:"contact"`
	Status  NotificationStatus `json:"status"`
}

// SOSSession - жизненный цикл одного срабатывания SOS
type SOSSession struct {
	ID        string          `json:"id"`
	State     SOSState        `json:"state"`
	Remaining int             `json:"remaining"`
	Location  RoutePoint      `json:"location"`
	Reason    string          `json:"reason"`
	Contacts  []ContactStatus `json:"contacts"`
}
