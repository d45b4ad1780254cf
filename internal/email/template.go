package email

import (
	"fmt"
	"strings"
)

// Shared envelope fragments. The body content is inserted verbatim: there is
// no HTML escaping step, callers own the trustworthiness of title and message.
const (
	envelopeOpen = `<div style="width:100%%; max-width:500px; padding:4px; border-radius:6px; font-size:14px; font-family:Arial, Helvetica, sans-serif;">
<div style="text-align:center;"><img style="width:50%%;" src="%s/public/logo.png" alt="Logo Connect Palestine"></div>
<div style="width:100%%; margin:auto;">
`
	envelopeClose = `<p style="margin-top:0px; margin-bottom:8px; width:100%; text-align:end;">by <a href="https://instagram.com/palestinosrosario" target="_blank">@palestinosrosario</a></p>
</div>
</div>`

	paragraphFormat = `<p style="margin-top:0px; margin-bottom:8px; word-break:break-all;">%s</p>`
	headingFormat   = `<h2 style="font-size:18px; width:100%%;">%s</h2>`
)

// renderBody builds the HTML body for notice and broadcast sends: the brand
// envelope around a verbatim heading and one paragraph per message line.
// Lines keep their order and are not trimmed or re-joined.
func renderBody(title, message, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, envelopeOpen, baseURL)
	fmt.Fprintf(&b, headingFormat, title)
	b.WriteString("\n")
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintf(&b, paragraphFormat, line)
		b.WriteString("\n")
	}
	b.WriteString(envelopeClose)
	return b.String()
}

// WelcomeSubject is the fixed subject of the welcome send.
const WelcomeSubject = "¡Bienvenid@ a Connect Palestine! \U0001f1f5\U0001f1f8 \U0001f30d"

const welcomeParagraphs = `<p style="margin-top:0px; margin-bottom:8px;">¡Gracias por unirte a <b>Connect Palestine!</b></p>
<p style="margin-top:0px; margin-bottom:8px;">Estamos encantados de que formes parte de nuestra comunidad, un espacio digital donde la cultura, historia y actualidad de Palestina encuentran su voz.</p>
<p style="margin-top:0px; margin-bottom:8px;">Como suscriptor, recibirás nuestras últimas actualizaciones sobre <b>películas, series, arte, gastronomía, música</b>, y mucho más conectado con Palestina. También te mantendremos al tanto de eventos y proyectos especiales, para que no te pierdas ninguna oportunidad de conectar y ser parte de esta red de apoyo y difusión.</p>
<p style="margin-top:0px; margin-bottom:8px;">Si tenés preguntas o sugerencias, no dudes en escribirnos. Nos encantaría saber cómo podemos mejorar tu experiencia en <b>Connect Palestine.</b></p>
<p style="margin-top:0px; margin-bottom:8px; width:100%;">¡Gracias por sumarte! Nos vemos pronto en tu bandeja de entrada.</p>
<p style="margin-top:0px; margin-bottom:8px; width:100%;">Un fuerte saludo, El equipo de <b>Connect Palestine</b></p>
`

// renderWelcomeBody builds the static welcome body, personalized only with
// the subscriber's name in the greeting.
func renderWelcomeBody(name, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, envelopeOpen, baseURL)
	fmt.Fprintf(&b, `<h2 style="font-size:18px; width:100%%;">Hola <b>%s</b></h2>`, name)
	b.WriteString("\n")
	b.WriteString(welcomeParagraphs)
	b.WriteString(envelopeClose)
	return b.String()
}
