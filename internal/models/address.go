package models

// Address is a destination for an alert. Exactly one channel applies to each
// address: an email address is reached by email, a phone number by SMS and a
// customer id by push (devices are looked up downstream).
type Address struct {
	Channel ChannelKind `json:"channel"`
	Value   string      `json:"value"`
}

func EmailAddress(email string) Address {
	return Address{Channel: ChannelEmail, Value: email}
}

func PhoneNumber(number string) Address {
	return Address{Channel: ChannelSMS, Value: number}
}

func PushTarget(customerID string) Address {
	return Address{Channel: ChannelPush, Value: customerID}
}
