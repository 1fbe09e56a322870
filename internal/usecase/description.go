package usecase

import (
	"bytes"
	"fmt"
	"html/template"

	"go.ngs.io/emwave-api/internal/domain"
)

type descriptionData struct {
	Title     string
	Intro     string
	Equations []template.HTML
	ListTitle string
	Items     []template.HTML
	Outro     string
}

var descriptionTemplate = template.Must(template.New("description").Parse(`<h3>{{.Title}}</h3>
<p>{{.Intro}}</p>
<div class="equation">{{range $i, $e := .Equations}}{{if $i}}<br>{{end}}{{$e}}{{end}}</div>
<p><strong>{{.ListTitle}}</strong></p>
<ul>
{{- range .Items}}
  <li>{{.}}</li>
{{- end}}
</ul>
{{- if .Outro}}
<p>{{.Outro}}</p>
{{- end}}
`))

// Describe returns a one-line summary and an HTML description of a result.
func Describe(p Params, cfg *Configuration) (string, string, error) {
	d := describe(p, cfg)
	var buf bytes.Buffer
	if err := descriptionTemplate.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("failed to render description: %w", err)
	}
	return summary(p, cfg), buf.String(), nil
}

func summary(p Params, cfg *Configuration) string {
	w := cfg.Physics.Wave
	base := fmt.Sprintf("%s at %.3f GHz (λ = %.3f mm)", p.Phenomenon.Title(), w.Frequency/1e9, w.Wavelength*1e3)
	switch p.Phenomenon {
	case domain.PhenomenonReflection:
		return fmt.Sprintf("%s, %s to %s at %.1f°", base, p.Medium1.Name, p.Medium2.Name, p.AngleDeg)
	case domain.PhenomenonInterference:
		return fmt.Sprintf("%s, %d sources %.1fλ apart", base, p.Sources, p.SeparationWavelengths)
	case domain.PhenomenonDoppler:
		return fmt.Sprintf("%s, source velocity %.0f m/s", base, p.Velocity)
	case domain.PhenomenonPolarization:
		return fmt.Sprintf("%s, %s at %.0f°", base, p.Polarization, p.PolAngleDeg)
	case domain.PhenomenonDipole:
		return fmt.Sprintf("%s, L = %.2fλ", base, p.DipoleLength)
	case domain.PhenomenonWaveguide:
		return fmt.Sprintf("%s, %s %s", base, p.Guide, p.Mode)
	}
	return base
}

//nolint:funlen // One case per phenomenon.
func describe(p Params, cfg *Configuration) descriptionData {
	w := cfg.Physics.Wave
	switch p.Phenomenon {
	case domain.PhenomenonReflection:
		r := cfg.Physics.ReflectionInfo
		items := []template.HTML{
			htmlf("n₁ = %.3f (%s), n₂ = %.3f (%s)", r.Media[0].RefractiveIndex, r.Media[0].Name, r.Media[1].RefractiveIndex, r.Media[1].Name),
			htmlf("Brewster angle: %.1f°", r.BrewsterAngleDeg),
		}
		if r.TotalInternalReflection {
			items = append(items, htmlf("Total internal reflection: θ₁ exceeds the critical angle %.1f°", *r.CriticalAngleDeg))
		} else {
			items = append(items,
				htmlf("Transmitted angle: %.1f°", *r.TransmittedAngleDeg),
				htmlf("R<sub>TE</sub> + T<sub>TE</sub> = %.3f", r.FresnelCoefficients.ReflectanceTE+*r.FresnelCoefficients.TransmittanceTE),
			)
		}
		items = append(items,
			"Tangential E and H are continuous across the boundary",
			"Power is conserved: R + T = 1 for lossless media",
		)
		return descriptionData{
			Title:     "Reflection and Refraction at a Dielectric Interface",
			Intro:     "A plane wave meets the boundary between two dielectrics. Snell's law fixes the ray directions and the Fresnel equations split the power between the reflected and transmitted waves.",
			Equations: []template.HTML{"n₁ sin θ₁ = n₂ sin θ₂", "r<sub>TE</sub> = (n₁cos θ₁ − n₂cos θ₂)/(n₁cos θ₁ + n₂cos θ₂)"},
			ListTitle: "Interface:",
			Items:     items,
		}

	case domain.PhenomenonStandingWave:
		s := cfg.Physics.StandingWave
		return descriptionData{
			Title:     "Standing Wave Formation",
			Intro:     "Two counter-propagating waves of equal amplitude and frequency superpose into a pattern with fixed nodes and antinodes.",
			Equations: []template.HTML{"E(x,t) = 2E₀ cos(kx) cos(ωt)"},
			ListTitle: "Pattern:",
			Items: []template.HTML{
				htmlf("Node spacing: λ/2 = %.1f mm", s.NodeSpacing*1e3),
				htmlf("%d nodes and %d antinodes in a %.1f mm cavity", len(s.Nodes), len(s.Antinodes), s.CavityLength*1e3),
				htmlf("Peak field: 2E₀ = %.3g V/m", s.MaxAmplitude),
				"Energy sloshes between E and B without net transport",
			},
			Outro: "Resonant cavities, laser resonators and musical instruments all rely on standing waves.",
		}

	case domain.PhenomenonInterference:
		in := cfg.Physics.Interference
		items := []template.HTML{
			htmlf("Number of sources: %d", in.Sources),
			htmlf("Source separation: %.1f wavelengths", in.SeparationWavelengths),
		}
		if in.MeasuredFringeSpacing != nil {
			items = append(items, htmlf("Measured fringe spacing on the screen: %.2fλ", *in.MeasuredFringeSpacing))
		}
		items = append(items,
			"Bright fringes: constructive interference",
			"Dark fringes: destructive interference",
		)
		return descriptionData{
			Title:     "Wave Interference from Coherent Sources",
			Intro:     "Waves from coherent point sources add with a phase set by their path difference, producing bright and dark fringes.",
			Equations: []template.HTML{"I(r) = |E₁(r) + E₂(r) + … + Eₙ(r)|²"},
			ListTitle: "Pattern:",
			Items:     items,
			Outro:     "The same physics governs Young's double slit, phased array antennas and optical interferometers.",
		}

	case domain.PhenomenonDoppler:
		d := cfg.Physics.Doppler
		items := []template.HTML{htmlf("Source velocity: %.0f m/s", d.SourceVelocity)}
		if d.Error != "" {
			items = append(items, htmlf("%s", d.Error))
		} else {
			items = append(items,
				htmlf("β = %.3e, observed frequency %.6f GHz", *d.Beta, *d.ObservedFrequency/1e9),
				htmlf("Relative shift: %.3e (%s)", *d.RelativeShift, d.Shift),
			)
		}
		return descriptionData{
			Title: "Relativistic Doppler Effect",
			Intro: "Light travels at c in every frame, so the Doppler shift of electromagnetic waves follows from special relativity.",
			Equations: []template.HTML{
				"f' = f √[(1 + β)/(1 − β)] approaching",
				"f' = f √[(1 − β)/(1 + β)] receding, β = v/c",
			},
			ListTitle: "Shift:",
			Items:     items,
			Outro:     "Radar speed guns, laser velocimetry and astronomical redshift measurements use this relation.",
		}

	case domain.PhenomenonPolarization:
		pol := cfg.Physics.Polarization
		return descriptionData{
			Title: "Electromagnetic Wave Polarization",
			Intro: "Polarization describes the path traced by the electric field vector in the plane transverse to propagation.",
			Equations: []template.HTML{
				"Linear: E = E₀(x̂ cos α + ŷ sin α) cos(kz − ωt)",
				"Circular: E = E₀(x̂ cos(kz − ωt) ± ŷ sin(kz − ωt))",
			},
			ListTitle: "State:",
			Items: []template.HTML{
				htmlf("Type: %s, orientation %.1f°", pol.Type, pol.OrientationDeg),
				htmlf("Stokes vector: (%.3g, %.3g, %.3g, %.3g)", pol.Stokes.S0, pol.Stokes.S1, pol.Stokes.S2, pol.Stokes.S3),
				htmlf("Axial ratio: %.2f, handedness: %s", pol.AxialRatio, pol.Handedness),
			},
			Outro: "LCD panels, 3D glasses, satellite links and optical isolators all manipulate polarization.",
		}

	case domain.PhenomenonDipole:
		dp := cfg.Physics.Dipole
		return descriptionData{
			Title:     "Dipole Antenna Radiation Pattern",
			Intro:     "A centre-fed linear conductor radiates with a pattern set by its length in wavelengths.",
			Equations: []template.HTML{"E<sub>θ</sub> = (jηI₀/2πr) f(θ) e<sup>−jkr</sup>"},
			ListTitle: "Antenna:",
			Items: []template.HTML{
				htmlf("Length: %.2fλ (%.1f mm)", dp.LengthWavelengths, dp.Length*1e3),
				htmlf("Radiation resistance: %.1f Ω", dp.RadiationResistance),
				htmlf("Directivity: %.2f (%.2f dBi)", dp.Directivity, dp.DirectivityDBi),
				"E-plane: figure-eight with nulls along the axis",
				"H-plane: omnidirectional",
			},
			Outro: "Dipoles serve as FM and Wi-Fi antennas and as feeds for larger arrays.",
		}

	case domain.PhenomenonWaveguide:
		wg := cfg.Physics.Waveguide
		items := []template.HTML{
			htmlf("Mode %s in a %s guide", wg.Mode, wg.Type),
			htmlf("Cutoff frequency: %.3f GHz", wg.CutoffFrequency/1e9),
		}
		if wg.Evanescent {
			items = append(items, htmlf("Below cutoff: the field decays with α = %.1f Np/m", *wg.AttenuationConstant))
		} else {
			items = append(items,
				htmlf("Guide wavelength: %.2f mm", *wg.GuideWavelength*1e3),
				htmlf("Wave impedance: %.1f Ω", *wg.Impedance),
			)
		}
		items = append(items, "TE modes have E<sub>z</sub> = 0, TM modes have H<sub>z</sub> = 0")
		return descriptionData{
			Title: "Waveguide Mode Propagation",
			Intro: "A hollow metal pipe supports discrete field patterns, each with its own cutoff frequency.",
			Equations: []template.HTML{
				"f<sub>c</sub> = (c/2π)√[(mπ/a)² + (nπ/b)²]",
				"β = (2πf/c)√[1 − (f<sub>c</sub>/f)²]",
			},
			ListTitle: "Mode:",
			Items:     items,
			Outro:     "Waveguides carry microwave power in radar front ends and satellite ground stations.",
		}
	}

	return descriptionData{
		Title:     "Plane Electromagnetic Wave",
		Intro:     "A plane wave in free space carries mutually perpendicular E and B fields, both transverse to the direction of travel.",
		Equations: []template.HTML{"E(x,t) = E₀ sin(kx − ωt)", "B(x,t) = (E₀/c) sin(kx − ωt)"},
		ListTitle: "Key Parameters:",
		Items: []template.HTML{
			htmlf("Frequency: %.3f GHz", w.Frequency/1e9),
			htmlf("Wavelength: %.3f mm", w.Wavelength*1e3),
			htmlf("Wave number: k = %.3f rad/m", w.WaveNumber),
			htmlf("Period: %.3f ns", w.Period*1e9),
			htmlf("B-field amplitude: %.3f nT", p.Wave.MagneticAmplitude()*1e9),
		},
		Outro: "The electric and magnetic energy densities are equal at every point.",
	}
}

// htmlf formats trusted markup, escaping string arguments.
func htmlf(format string, args ...any) template.HTML {
	for i, a := range args {
		if s, ok := a.(string); ok {
			args[i] = template.HTMLEscapeString(s)
		}
	}
	return template.HTML(fmt.Sprintf(format, args...)) //nolint:gosec // Arguments are escaped.
}
