package dispatch

// Menu content lives here; the routing engine never formats user-facing text.

const menuHeader = "¡Hola! 👋 Gracias por escribirnos. ¿Sobre qué tema deseas consultar?\n\n"

const menuFooter = "\nResponde con el número de la opción o escribe *menú* para volver aquí."

var menuOptions = []string{
	"1️⃣ 🔥 Gas natural",
	"2️⃣ 🚗 Automotriz",
	"3️⃣ 🏗️ Construcción",
	"4️⃣ ⛽ GLP",
	"5️⃣ 🔧 Mangueras y conexiones",
	"6️⃣ 🔑 Bronce, latón y llaves",
	"7️⃣ ⚙️ Servicios industriales",
	"8️⃣ 💬 Otro",
}

// MenuText renders the introductory eight-option menu.
func MenuText() string {
	out := menuHeader
	for _, opt := range menuOptions {
		out += opt + "\n"
	}
	return out + menuFooter
}
