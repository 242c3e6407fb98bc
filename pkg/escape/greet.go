package escape

// Greeting is the message passed to the host by Greet.
const Greeting = "Hello, escape!"

// AlertFunc is a host provided notification primitive.
type AlertFunc func(msg string)

// Greet sends Greeting to the host through alert. Nil alert is a no-op.
func Greet(alert AlertFunc) {
	if alert == nil {
		return
	}
	alert(Greeting)
}
